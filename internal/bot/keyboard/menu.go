package keyboard

// MenuButton is an admin menu action. Its value doubles as the display label
// and as the callback token of the inline button.
type MenuButton string

const (
	AddJunior      MenuButton = "Add new Junior Saver"
	ShowAllJuniors MenuButton = "Show all Juniors"
)

const (
	defaultInlinePerRow = 3
	defaultReplyPerRow  = 2
)

// MainMenuButtons returns the admin menu in display order.
func MainMenuButtons() []MenuButton {
	return []MenuButton{AddJunior, ShowAllJuniors}
}

func (b MenuButton) String() string {
	return string(b)
}
