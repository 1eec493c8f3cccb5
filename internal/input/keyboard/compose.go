package keyboard

import (
	"strings"

	"github.com/dshills/keypress/internal/input/key"
)

// PressedSuffix ends every composed name.
const PressedSuffix = "-pressed"

// literalTokens name keys that are already self-descriptive and never get
// the "-key" suffix.
var literalTokens = map[string]struct{}{
	"escape":    {},
	"spacebar":  {},
	"enter":     {},
	"backspace": {},
	"insert":    {},
	"delete":    {},
	"home":      {},
	"end":       {},
	"pageup":    {},
	"pagedown":  {},
}

// Compose builds "[ctrl-][shift-][alt-]<key-token>-pressed" from the
// captured modifiers and a normalized token.
func Compose(mods key.Modifier, token string) string {
	var b strings.Builder
	if mods.HasCtrl() {
		b.WriteString("ctrl-")
	}
	if mods.HasShift() {
		b.WriteString("shift-")
	}
	if mods.HasAlt() {
		b.WriteString("alt-")
	}
	b.WriteString(keyToken(mods, token))
	b.WriteString(PressedSuffix)
	return b.String()
}

// keyToken picks the key part of the name. With any modifier held the
// token is used as-is, so ctrl+A reads "ctrl-a-pressed".
func keyToken(mods key.Modifier, token string) string {
	if _, ok := literalTokens[token]; ok || !mods.IsEmpty() {
		return token
	}
	if isDigit(token) {
		return "number-" + token
	}
	return token + "-key"
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
