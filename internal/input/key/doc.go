// Package key defines physical key codes, modifier flags, and the raw
// key-down event that keyboard feeds deliver.
//
// Codes follow the layout-independent physical naming used by browsers
// (UI Events "code" values): "KeyA", "Digit5", "ArrowUp", "Numpad8",
// "Space", "Period". A code names a key position, not the character the
// active layout would type there.
//
// The translator only acts on the fixed target set returned by
// TargetCodes; feeds may emit any other code and it is simply ignored.
package key
