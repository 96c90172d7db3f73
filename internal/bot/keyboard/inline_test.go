package keyboard_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	"github.com/Proton-105/juniorsaver-bot/internal/testutil"
)

func TestInlineKeyboard(t *testing.T) {
	t.Run("rows and prefix", func(t *testing.T) {
		markup := keyboard.InlineKeyboard([]keyboard.InlineButton{
			{Name: "one", Text: "One"},
			{Name: "two", Text: "Two"},
			{Name: "three", Text: "Three"},
		}, 2, "menu:")

		testutil.AssertEqual(t, 2, len(markup.InlineKeyboard))
		testutil.AssertEqual(t, 2, len(markup.InlineKeyboard[0]))
		testutil.AssertEqual(t, 1, len(markup.InlineKeyboard[1]))
		testutil.AssertEqual(t, "Two", markup.InlineKeyboard[0][1].Text)
		testutil.AssertEqual(t, "menu:two", markup.InlineKeyboard[0][1].Data)
		testutil.AssertEqual(t, "menu:three", markup.InlineKeyboard[1][0].Data)
	})

	t.Run("empty", func(t *testing.T) {
		markup := keyboard.InlineKeyboard(nil, 3, "")
		testutil.AssertEqual(t, 0, len(markup.InlineKeyboard))
	})
}

func TestInlineFromMenu(t *testing.T) {
	markup := keyboard.InlineFromMenu(keyboard.MainMenuButtons(), 0, "")

	testutil.AssertEqual(t, 1, len(markup.InlineKeyboard))
	row := markup.InlineKeyboard[0]
	testutil.AssertEqual(t, 2, len(row))
	testutil.AssertEqual(t, "Add new Junior Saver", row[0].Text)
	testutil.AssertEqual(t, "Add new Junior Saver", row[0].Data)
	testutil.AssertEqual(t, "Show all Juniors", row[1].Text)
	testutil.AssertEqual(t, "Show all Juniors", row[1].Data)
}

func TestBuilderMainMenu(t *testing.T) {
	builder := keyboard.NewBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
	markup := builder.MainMenu()

	testutil.AssertEqual(t, 1, len(markup.InlineKeyboard))
	testutil.AssertEqual(t, string(keyboard.AddJunior), markup.InlineKeyboard[0][0].Data)
}

func TestBuilderWarnsOnOversizedCallback(t *testing.T) {
	var buf bytes.Buffer
	builder := keyboard.NewBuilder(slog.New(slog.NewTextHandler(&buf, nil)), strings.Repeat("x", keyboard.CallbackDataLimitBytes))

	markup := builder.MainMenu()

	testutil.AssertEqual(t, 2, len(markup.InlineKeyboard[0]))
	if !strings.Contains(buf.String(), "callback data exceeds telegram limit") {
		t.Fatalf("expected oversize warning, got %q", buf.String())
	}
}
