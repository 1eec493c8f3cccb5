package key

import "testing"

func TestTargetCodes(t *testing.T) {
	codes := TargetCodes()
	if len(codes) != 56 {
		t.Fatalf("len(TargetCodes()) = %d, want 56", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("TargetCodes() not sorted at %d: %q >= %q", i, codes[i-1], codes[i])
		}
	}

	// callers get a copy
	codes[0] = "Mutated"
	if !IsTarget(TargetCodes()[0]) {
		t.Error("mutating the returned slice must not affect the set")
	}
}

func TestIsTarget(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeKeyA, true},
		{CodeDigit0, true},
		{CodeNumpad8, true},
		{CodePeriod, true},
		{CodeBackspace, true},
		{"Numpad5", false},
		{"Tab", false},
		{"F1", false},
		{"keya", false},
		{"", false},
		{CodeUnidentified, false},
	}

	for _, tt := range tests {
		if got := IsTarget(tt.code); got != tt.want {
			t.Errorf("IsTarget(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	tests := []struct {
		ctrl, shift, alt bool
		want             Modifier
		str              string
	}{
		{false, false, false, ModNone, ""},
		{true, false, false, ModCtrl, "Ctrl"},
		{false, true, false, ModShift, "Shift"},
		{false, false, true, ModAlt, "Alt"},
		{true, true, true, ModCtrl | ModShift | ModAlt, "Ctrl+Shift+Alt"},
		{false, true, true, ModShift | ModAlt, "Shift+Alt"},
	}

	for _, tt := range tests {
		got := Modifiers(tt.ctrl, tt.shift, tt.alt)
		if got != tt.want {
			t.Errorf("Modifiers(%v, %v, %v) = %d, want %d", tt.ctrl, tt.shift, tt.alt, got, tt.want)
		}
		if got.String() != tt.str {
			t.Errorf("Modifier(%d).String() = %q, want %q", got, got.String(), tt.str)
		}
		if got.IsEmpty() != (tt.want == ModNone) {
			t.Errorf("Modifier(%d).IsEmpty() = %v", got, got.IsEmpty())
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	mod := ModNone.With(ModCtrl).With(ModAlt)
	if !mod.HasCtrl() || !mod.HasAlt() || mod.HasShift() {
		t.Errorf("With() produced %s", mod)
	}
	mod = mod.Without(ModCtrl)
	if mod.HasCtrl() || !mod.HasAlt() {
		t.Errorf("Without(ModCtrl) produced %s", mod)
	}
}

func TestEvent(t *testing.T) {
	e := NewEvent(CodeKeyA, ModCtrl|ModShift)
	if !e.Ctrl() || !e.Shift() || e.Alt() {
		t.Errorf("flags = %v %v %v", e.Ctrl(), e.Shift(), e.Alt())
	}
	if e.Timestamp.IsZero() {
		t.Error("NewEvent should stamp the event")
	}
	if got := e.String(); got != "Ctrl+Shift+KeyA" {
		t.Errorf("String() = %q", got)
	}
	if got := NewEvent(CodeEscape, ModNone).String(); got != "Escape" {
		t.Errorf("String() = %q", got)
	}
}
