package keyboard

import "strings"

// CallbackDataLimitBytes is the Telegram limit for inline callback data.
const CallbackDataLimitBytes = 64

// EncodeCallback joins a menu prefix and a button token into callback data.
func EncodeCallback(prefix, name string) string {
	return prefix + name
}

// DecodeCallback strips prefix from callback data. ok is false when the data
// was produced by a keyboard with a different prefix.
func DecodeCallback(data, prefix string) (name string, ok bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}

	return data[len(prefix):], true
}

// FitsCallbackLimit reports whether data can be sent as callback data.
func FitsCallbackLimit(data string) bool {
	return len(data) <= CallbackDataLimitBytes
}
