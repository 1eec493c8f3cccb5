package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypress/internal/input/key"
)

func TestNormalize_TargetCodes(t *testing.T) {
	want := map[key.Code]string{
		key.CodeNumpad2: "down",
		key.CodeNumpad4: "left",
		key.CodeNumpad6: "right",
		key.CodeNumpad8: "up",

		key.CodePageUp:   "pageup",
		key.CodePageDown: "pagedown",
		key.CodeHome:     "home",
		key.CodeEnd:      "end",
		key.CodeInsert:   "insert",
		key.CodeDelete:   "delete",

		key.CodeArrowUp:    "up",
		key.CodeArrowDown:  "down",
		key.CodeArrowLeft:  "left",
		key.CodeArrowRight: "right",

		key.CodeEnter:     "enter",
		key.CodeSpace:     "spacebar",
		key.CodeEscape:    "escape",
		key.CodeBackspace: "backspace",

		key.CodeComma:  "comma",
		key.CodePeriod: "fullstop",
	}
	for d := '0'; d <= '9'; d++ {
		want[key.Code("Digit"+string(d))] = string(d)
	}
	for l := 'A'; l <= 'Z'; l++ {
		want[key.Code("Key"+string(l))] = string(l + ('a' - 'A'))
	}

	table := NormalizationTable()
	require.Len(t, table, len(key.TargetCodes()))
	assert.Equal(t, want, table)

	for code, token := range want {
		assert.Equal(t, token, Normalize(code), "Normalize(%s)", code)
	}
}

func TestNormalize_RuleOrder(t *testing.T) {
	tests := []struct {
		code key.Code
		want string
	}{
		// Only the first occurrence of each substring is stripped.
		{"KeyKey", "key"},
		{"ArrowArrow", "arrow"},
		// "space" must match exactly after the strips.
		{"SpaceBar", "spacebar"},
		{"Spaces", "spaces"},
		{"KeySpace", "spacebar"},
		{"NumpadDecimalPeriod", "numpaddecimalfullstop"},
		// The numpad remap is exact.
		{"Numpad5", "numpad5"},
		{"Numpad80", "numpad80"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.code))
		})
	}
}

func TestNormalizationTable_ReturnsCopy(t *testing.T) {
	table := NormalizationTable()
	table[key.CodeKeyA] = "mutated"
	assert.Equal(t, "a", NormalizationTable()[key.CodeKeyA])
}

func TestCompose(t *testing.T) {
	ctrl := key.ModCtrl
	shift := key.ModShift
	alt := key.ModAlt

	tests := []struct {
		name  string
		mods  key.Modifier
		token string
		want  string
	}{
		{"letter", key.ModNone, "a", "a-key-pressed"},
		{"digit", key.ModNone, "5", "number-5-pressed"},
		{"escape", key.ModNone, "escape", "escape-pressed"},
		{"spacebar", key.ModNone, "spacebar", "spacebar-pressed"},
		{"enter", key.ModNone, "enter", "enter-pressed"},
		{"backspace", key.ModNone, "backspace", "backspace-pressed"},
		{"insert", key.ModNone, "insert", "insert-pressed"},
		{"delete", key.ModNone, "delete", "delete-pressed"},
		{"home", key.ModNone, "home", "home-pressed"},
		{"end", key.ModNone, "end", "end-pressed"},
		{"pageup", key.ModNone, "pageup", "pageup-pressed"},
		{"pagedown", key.ModNone, "pagedown", "pagedown-pressed"},
		{"arrow", key.ModNone, "up", "up-key-pressed"},
		{"punctuation", key.ModNone, "fullstop", "fullstop-key-pressed"},
		{"multi-char digit-like", key.ModNone, "10", "10-key-pressed"},
		{"ctrl letter", ctrl, "a", "ctrl-a-pressed"},
		{"ctrl digit", ctrl, "5", "ctrl-5-pressed"},
		{"shift literal", shift, "escape", "shift-escape-pressed"},
		{"alt arrow", alt, "left", "alt-left-pressed"},
		{"all modifiers", ctrl | shift | alt, "z", "ctrl-shift-alt-z-pressed"},
		{"ctrl alt", ctrl | alt, "delete", "ctrl-alt-delete-pressed"},
		{"shift alt", shift | alt, "1", "shift-alt-1-pressed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(tt.mods, tt.token))
		})
	}
}

func TestCompose_PrefixOrderIndependentOfBuildOrder(t *testing.T) {
	a := key.ModNone.With(key.ModAlt).With(key.ModShift).With(key.ModCtrl)
	b := key.Modifiers(true, true, true)
	assert.Equal(t, Compose(b, "k"), Compose(a, "k"))
	assert.Equal(t, "ctrl-shift-alt-k-pressed", Compose(a, "k"))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		code key.Code
		mods key.Modifier
		want string
	}{
		{key.CodeKeyA, key.ModNone, "a-key-pressed"},
		{key.CodeDigit5, key.ModNone, "number-5-pressed"},
		{key.CodeEscape, key.ModNone, "escape-pressed"},
		{key.CodeNumpad8, key.ModCtrl, "ctrl-up-pressed"},
		{key.CodeSpace, key.ModNone, "spacebar-pressed"},
		{key.CodePeriod, key.ModShift, "shift-fullstop-pressed"},
		{key.CodeArrowLeft, key.ModNone, "left-key-pressed"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			tr := Translate(key.NewEvent(tt.code, tt.mods))
			assert.Equal(t, tt.code, tr.Code)
			assert.Equal(t, tt.mods, tr.Modifiers)
			assert.Equal(t, tt.want, tr.Name)
		})
	}
}

func TestTranslate_TokenIndependentOfModifiers(t *testing.T) {
	for _, code := range key.TargetCodes() {
		base := Translate(key.NewEvent(code, key.ModNone)).Token
		for m := key.ModNone; m <= key.ModCtrl|key.ModShift|key.ModAlt; m++ {
			assert.Equal(t, base, Translate(key.NewEvent(code, m)).Token, "%s with %s", code, m)
		}
	}
}

func TestTranslate_NamesAreSingleSegmentTopics(t *testing.T) {
	for _, code := range key.TargetCodes() {
		for m := key.ModNone; m <= key.ModCtrl|key.ModShift|key.ModAlt; m++ {
			name := Translate(key.NewEvent(code, m)).Name
			assert.NotContains(t, name, ".")
			assert.NotEmpty(t, name)
		}
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name      string
		on        bool
		throttled bool
		code      key.Code
		want      bool
	}{
		{"admits", true, false, key.CodeKeyA, true},
		{"power off", false, false, key.CodeKeyA, false},
		{"throttled", true, true, key.CodeKeyA, false},
		{"not a target", true, false, "F1", false},
		{"unidentified", true, false, key.CodeUnidentified, false},
		{"off and throttled", false, true, key.CodeKeyA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate(tt.on, tt.throttled, tt.code))
		})
	}
}
