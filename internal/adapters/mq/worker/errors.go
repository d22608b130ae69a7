package worker

import "errors"

// ErrRecorderPanic marks a session whose recorder panicked.
var ErrRecorderPanic = errors.New("recorder panicked")
