package gui

type ConsoleBuilderOption func(*consoleImpl)

// WithHistoryCapacity sets how many confirmed commands the history keeps.
func WithHistoryCapacity(n int) ConsoleBuilderOption {
	return func(c *consoleImpl) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithOutputLines sets how many lines the output log keeps.
func WithOutputLines(n int) ConsoleBuilderOption {
	return func(c *consoleImpl) {
		if n > 0 {
			c.maxLines = n
		}
	}
}
