package tools

import "errors"

var (
	// ErrMissingArgument is returned when a required tool argument is empty.
	ErrMissingArgument = errors.New("missing argument")

	// ErrProvider wraps non-2xx responses and transport failures from the
	// weather provider. The weather tool degrades it to a simulated reading.
	ErrProvider = errors.New("weather provider error")
)
