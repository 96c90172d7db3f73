package keyboard_test

import (
	"strings"
	"testing"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
)

func TestEncodeCallback(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		token  string
		want   string
	}{
		{name: "no prefix", prefix: "", token: "Add new Junior Saver", want: "Add new Junior Saver"},
		{name: "with prefix", prefix: "admin:", token: "Show all Juniors", want: "admin:Show all Juniors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyboard.EncodeCallback(tt.prefix, tt.token); got != tt.want {
				t.Errorf("EncodeCallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		prefix string
		want   string
		wantOK bool
	}{
		{name: "matching prefix", data: "admin:Add", prefix: "admin:", want: "Add", wantOK: true},
		{name: "empty prefix", data: "Add", prefix: "", want: "Add", wantOK: true},
		{name: "foreign prefix", data: "other:Add", prefix: "admin:", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyboard.DecodeCallback(tt.data, tt.prefix)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DecodeCallback() = (%q, %t), want (%q, %t)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFitsCallbackLimit(t *testing.T) {
	if !keyboard.FitsCallbackLimit(strings.Repeat("x", keyboard.CallbackDataLimitBytes)) {
		t.Error("expected data at the limit to fit")
	}
	if keyboard.FitsCallbackLimit(strings.Repeat("x", keyboard.CallbackDataLimitBytes+1)) {
		t.Error("expected oversized data to be rejected")
	}
}
