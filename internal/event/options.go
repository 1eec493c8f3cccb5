package event

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	// errorHandler receives handler errors and recovered panics.
	errorHandler ErrorHandler
}

func defaultBusConfig() busConfig {
	return busConfig{}
}

// WithErrorHandler sets the function that receives handler errors and
// recovered panics (as *HandlerError and *PanicError).
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}
