package testutil

import (
	"regexp"
	"sync"
	"time"
	"unicode/utf16"

	telebot "gopkg.in/telebot.v3"
)

var commandPattern = regexp.MustCompile(`^/[A-Za-z0-9_]{1,32}(@[A-Za-z0-9_]+)?`)

// Outgoing records a single Send or Edit call.
type Outgoing struct {
	What any
	Opts []any
}

// Text returns the payload as a string, or "" for non-text payloads.
func (o Outgoing) Text() string {
	s, _ := o.What.(string)
	return s
}

// Markup returns the reply markup passed with the call, if any.
func (o Outgoing) Markup() *telebot.ReplyMarkup {
	for _, opt := range o.Opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			return markup
		}
	}
	return nil
}

// FakeContext implements the subset of telebot.Context used by the bot.
// Calling any other method panics on the nil embedded interface.
type FakeContext struct {
	telebot.Context

	User            *telebot.User
	ChatInfo        *telebot.Chat
	MessageText     string
	MessageEntities telebot.Entities
	CallbackInfo    *telebot.Callback
	UpdateID        int

	// SendDelay stalls every Send, widening the window between a handler's
	// state read and its transition.
	SendDelay time.Duration

	SendErr error
	EditErr error

	mu        sync.Mutex
	sent      []Outgoing
	edits     []Outgoing
	responses int
	store     map[string]any
}

// NewMessageContext builds a context for a text message from userID in a private chat.
// A leading command gets a bot_command entity, as Telegram sets it.
func NewMessageContext(userID int64, text string) *FakeContext {
	return &FakeContext{
		User:            &telebot.User{ID: userID, FirstName: "Admin"},
		ChatInfo:        &telebot.Chat{ID: userID, Type: telebot.ChatPrivate},
		MessageText:     text,
		MessageEntities: commandEntities(text),
	}
}

func commandEntities(text string) telebot.Entities {
	match := commandPattern.FindString(text)
	if match == "" {
		return nil
	}

	return telebot.Entities{{
		Type:   telebot.EntityCommand,
		Offset: 0,
		Length: len(utf16.Encode([]rune(match))),
	}}
}

// NewCallbackContext builds a context for an inline button press from userID.
func NewCallbackContext(userID int64, data string) *FakeContext {
	user := &telebot.User{ID: userID, FirstName: "Admin"}
	chat := &telebot.Chat{ID: userID, Type: telebot.ChatPrivate}

	return &FakeContext{
		User:     user,
		ChatInfo: chat,
		CallbackInfo: &telebot.Callback{
			ID:      "cb",
			Sender:  user,
			Data:    data,
			Message: &telebot.Message{ID: 1, Chat: chat},
		},
	}
}

func (c *FakeContext) Sender() *telebot.User { return c.User }

func (c *FakeContext) Chat() *telebot.Chat { return c.ChatInfo }

func (c *FakeContext) Callback() *telebot.Callback { return c.CallbackInfo }

func (c *FakeContext) Update() telebot.Update { return telebot.Update{ID: c.UpdateID} }

func (c *FakeContext) Text() string { return c.MessageText }

func (c *FakeContext) Message() *telebot.Message {
	if c.CallbackInfo != nil {
		return c.CallbackInfo.Message
	}
	return &telebot.Message{Text: c.MessageText, Entities: c.MessageEntities, Sender: c.User, Chat: c.ChatInfo}
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	if c.SendDelay > 0 {
		time.Sleep(c.SendDelay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, Outgoing{What: what, Opts: opts})
	return nil
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return c.EditErr
	}
	c.edits = append(c.edits, Outgoing{What: what, Opts: opts})
	return nil
}

func (c *FakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses++
	return nil
}

func (c *FakeContext) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *FakeContext) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

// Sent returns a copy of every Send call so far.
func (c *FakeContext) Sent() []Outgoing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outgoing(nil), c.sent...)
}

// Edits returns a copy of every Edit call so far.
func (c *FakeContext) Edits() []Outgoing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outgoing(nil), c.edits...)
}

// Responses reports how many callback answers were sent.
func (c *FakeContext) Responses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responses
}
