package keyboard

import (
	"strings"

	"github.com/dshills/keypress/internal/input/key"
)

// rule is one step of the normalization chain. rewrite runs only when
// match reports true for the value produced by the previous rule.
type rule struct {
	name    string
	match   func(string) bool
	rewrite func(string) string
}

// rules run in this order; later rules see the output of earlier ones.
var rules = []rule{
	{
		name:    "lowercase",
		match:   func(string) bool { return true },
		rewrite: strings.ToLower,
	},
	stripRule("key"),
	stripRule("arrow"),
	stripRule("digit"),
	{
		name:    "spacebar",
		match:   func(s string) bool { return s == "space" },
		rewrite: func(string) string { return "spacebar" },
	},
	{
		name:    "fullstop",
		match:   func(s string) bool { return strings.Contains(s, "period") },
		rewrite: func(s string) string { return strings.Replace(s, "period", "fullstop", 1) },
	},
	remapRule("numpad", map[string]string{
		"numpad2": "down",
		"numpad4": "left",
		"numpad6": "right",
		"numpad8": "up",
	}),
}

// stripRule removes the first occurrence of sub.
func stripRule(sub string) rule {
	return rule{
		name:    "strip-" + sub,
		match:   func(s string) bool { return strings.Contains(s, sub) },
		rewrite: func(s string) string { return strings.Replace(s, sub, "", 1) },
	}
}

// remapRule replaces values that equal a key of table exactly.
func remapRule(name string, table map[string]string) rule {
	return rule{
		name: name,
		match: func(s string) bool {
			_, ok := table[s]
			return ok
		},
		rewrite: func(s string) string { return table[s] },
	}
}

// Normalize runs the rewrite chain over code. The result depends on the
// code alone.
func Normalize(code key.Code) string {
	s := string(code)
	for _, r := range rules {
		if r.match(s) {
			s = r.rewrite(s)
		}
	}
	return s
}

// normalized holds the chain's output for every target code.
var normalized = func() map[key.Code]string {
	codes := key.TargetCodes()
	table := make(map[key.Code]string, len(codes))
	for _, c := range codes {
		table[c] = Normalize(c)
	}
	return table
}()

// normalizeTarget looks up a target code, falling back to the chain for
// anything else.
func normalizeTarget(code key.Code) string {
	if s, ok := normalized[code]; ok {
		return s
	}
	return Normalize(code)
}

// NormalizationTable returns a copy of the token for every target code.
func NormalizationTable() map[key.Code]string {
	out := make(map[key.Code]string, len(normalized))
	for c, s := range normalized {
		out[c] = s
	}
	return out
}
