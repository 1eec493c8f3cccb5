// Package keyboard translates raw key-down events into semantic
// "key pressed" names and publishes the ones a caller has enabled.
//
// Each raw event passes through five stages, strictly in order:
//
//	gate       power on, throttle window closed, code in the target set
//	capture    snapshot ctrl/shift/alt
//	normalize  lowercase + ordered rewrite rules ("KeyA" -> "a", "Numpad8" -> "up")
//	compose    "[ctrl-][shift-][alt-]<token>-pressed"
//	dispatch   publish if enabled, then open the throttle window
//
// The capture, normalize and compose stages are pure functions over an
// immutable per-event record and are exported as Normalize, Compose and
// Translate.
//
// # Throttle
//
// After every admitted event the gate closes for ThrottleDuration. The
// window is closed by a fire-and-forget timer: TurnOff, Enable and Stop do
// not cancel or shorten it, and turning power off and back on inside the
// window leaves it open until the timer fires.
//
// # Lifecycle
//
//	in, err := keyboard.New(keyboard.NewBusSource(bus), keyboard.NewBusPublisher(bus))
//	if err != nil {
//	    return err
//	}
//	in.Enable("a-key-pressed", "ctrl-up-pressed")
//	if err := in.Start(); err != nil {
//	    return err
//	}
//	defer in.Stop()
//	in.TurnOn()
package keyboard
