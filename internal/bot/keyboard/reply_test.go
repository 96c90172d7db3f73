package keyboard_test

import (
	"testing"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	"github.com/Proton-105/juniorsaver-bot/internal/testutil"
)

func TestReplyKeyboard(t *testing.T) {
	markup := keyboard.ReplyKeyboard([]string{"A", "B", "C"}, 2)

	if !markup.ResizeKeyboard || !markup.OneTimeKeyboard {
		t.Fatalf("expected resize and one-time flags, got %+v", markup)
	}

	expectedRows := [][]string{
		{"A", "B"},
		{"C"},
	}

	testutil.AssertEqual(t, len(expectedRows), len(markup.ReplyKeyboard))
	for i, row := range expectedRows {
		testutil.AssertEqual(t, len(row), len(markup.ReplyKeyboard[i]))
		for j, text := range row {
			testutil.AssertEqual(t, text, markup.ReplyKeyboard[i][j].Text)
		}
	}
}

func TestReplyKeyboardEmpty(t *testing.T) {
	markup := keyboard.ReplyKeyboard(nil, 2)
	testutil.AssertEqual(t, 0, len(markup.ReplyKeyboard))
}

func TestReplyFromMenu(t *testing.T) {
	markup := keyboard.ReplyFromMenu(keyboard.MainMenuButtons())

	testutil.AssertEqual(t, 1, len(markup.ReplyKeyboard))
	testutil.AssertEqual(t, "Add new Junior Saver", markup.ReplyKeyboard[0][0].Text)
	testutil.AssertEqual(t, "Show all Juniors", markup.ReplyKeyboard[0][1].Text)
}

func TestRemoveKeyboard(t *testing.T) {
	if !keyboard.RemoveKeyboard().RemoveKeyboard {
		t.Fatal("expected RemoveKeyboard flag")
	}
}
