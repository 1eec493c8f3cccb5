package key

import "sort"

// Code identifies a physical key position.
type Code string

// Target codes.
const (
	CodeNumpad2 Code = "Numpad2"
	CodeNumpad4 Code = "Numpad4"
	CodeNumpad6 Code = "Numpad6"
	CodeNumpad8 Code = "Numpad8"

	CodePageUp   Code = "PageUp"
	CodePageDown Code = "PageDown"
	CodeHome     Code = "Home"
	CodeEnd      Code = "End"
	CodeInsert   Code = "Insert"
	CodeDelete   Code = "Delete"

	CodeArrowUp    Code = "ArrowUp"
	CodeArrowDown  Code = "ArrowDown"
	CodeArrowLeft  Code = "ArrowLeft"
	CodeArrowRight Code = "ArrowRight"

	CodeEnter     Code = "Enter"
	CodeSpace     Code = "Space"
	CodeEscape    Code = "Escape"
	CodeBackspace Code = "Backspace"

	CodeDigit0 Code = "Digit0"
	CodeDigit1 Code = "Digit1"
	CodeDigit2 Code = "Digit2"
	CodeDigit3 Code = "Digit3"
	CodeDigit4 Code = "Digit4"
	CodeDigit5 Code = "Digit5"
	CodeDigit6 Code = "Digit6"
	CodeDigit7 Code = "Digit7"
	CodeDigit8 Code = "Digit8"
	CodeDigit9 Code = "Digit9"

	CodeKeyA Code = "KeyA"
	CodeKeyB Code = "KeyB"
	CodeKeyC Code = "KeyC"
	CodeKeyD Code = "KeyD"
	CodeKeyE Code = "KeyE"
	CodeKeyF Code = "KeyF"
	CodeKeyG Code = "KeyG"
	CodeKeyH Code = "KeyH"
	CodeKeyI Code = "KeyI"
	CodeKeyJ Code = "KeyJ"
	CodeKeyK Code = "KeyK"
	CodeKeyL Code = "KeyL"
	CodeKeyM Code = "KeyM"
	CodeKeyN Code = "KeyN"
	CodeKeyO Code = "KeyO"
	CodeKeyP Code = "KeyP"
	CodeKeyQ Code = "KeyQ"
	CodeKeyR Code = "KeyR"
	CodeKeyS Code = "KeyS"
	CodeKeyT Code = "KeyT"
	CodeKeyU Code = "KeyU"
	CodeKeyV Code = "KeyV"
	CodeKeyW Code = "KeyW"
	CodeKeyX Code = "KeyX"
	CodeKeyY Code = "KeyY"
	CodeKeyZ Code = "KeyZ"

	CodeComma  Code = "Comma"
	CodePeriod Code = "Period"
)

// CodeUnidentified is emitted by feeds for keys they cannot name.
const CodeUnidentified Code = "Unidentified"

// String returns the code as a string.
func (c Code) String() string {
	return string(c)
}

// targetCodes is never mutated after package initialization.
var targetCodes = func() map[Code]struct{} {
	codes := []Code{
		CodeNumpad2, CodeNumpad4, CodeNumpad6, CodeNumpad8,
		CodePageUp, CodePageDown, CodeHome, CodeEnd, CodeInsert, CodeDelete,
		CodeArrowUp, CodeArrowDown, CodeArrowLeft, CodeArrowRight,
		CodeEnter, CodeSpace, CodeEscape,
		CodeDigit1, CodeDigit2, CodeDigit3, CodeDigit4, CodeDigit5,
		CodeDigit6, CodeDigit7, CodeDigit8, CodeDigit9, CodeDigit0,
		CodeBackspace,
		CodeKeyQ, CodeKeyW, CodeKeyE, CodeKeyR, CodeKeyT, CodeKeyY, CodeKeyU, CodeKeyI, CodeKeyO, CodeKeyP,
		CodeKeyA, CodeKeyS, CodeKeyD, CodeKeyF, CodeKeyG, CodeKeyH, CodeKeyJ, CodeKeyK, CodeKeyL,
		CodeKeyZ, CodeKeyX, CodeKeyC, CodeKeyV, CodeKeyB, CodeKeyN, CodeKeyM,
		CodeComma, CodePeriod,
	}
	set := make(map[Code]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}()

// IsTarget reports whether c belongs to the fixed set of codes the
// translator acts on. Matching is exact and case-sensitive.
func IsTarget(c Code) bool {
	_, ok := targetCodes[c]
	return ok
}

// TargetCodes returns a sorted copy of the target code set.
func TargetCodes() []Code {
	codes := make([]Code, 0, len(targetCodes))
	for c := range targetCodes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
