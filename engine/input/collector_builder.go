package input

type CollectorBuilderOption func(*collectorImpl)

// WithMaxQueuedEvents bounds the number of undrained events. Zero disables the bound.
//
// Parameters:
//   - n: maximum queued events
//
// Returns:
//   - CollectorBuilderOption: a function that sets the queue bound
func WithMaxQueuedEvents(n int) CollectorBuilderOption {
	return func(c *collectorImpl) {
		c.maxSize = n
	}
}
