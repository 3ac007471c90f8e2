// Package notify delivers alert text to a notification sink.
package notify

// Sink accepts a single text payload per call. Delivery failures are
// non-fatal: the caller logs them and moves on, no retry.
type Sink interface {
	Send(text string) error
}
