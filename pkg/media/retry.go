package media

import "time"

const (
	// maxReadFailures is how many consecutive packet reads may fail before
	// a decoder gives up on the stream.
	maxReadFailures = 8

	// readRetryDelay spaces retries after a failed read.
	readRetryDelay = 20 * time.Millisecond
)

// readFailures counts consecutive read errors of a decode loop.
type readFailures struct {
	limit int
	n     int
}

func newReadFailures(limit int) *readFailures {
	return &readFailures{limit: max(limit, 1)}
}

// fail records a failed read and reports whether the loop should give up.
func (f *readFailures) fail() bool {
	f.n++
	return f.n >= f.limit
}

// ok records a successful read.
func (f *readFailures) ok() { f.n = 0 }

// delay is the wait before the next retry. It grows with each consecutive
// failure.
func (f *readFailures) delay() time.Duration {
	return time.Duration(f.n) * readRetryDelay
}
