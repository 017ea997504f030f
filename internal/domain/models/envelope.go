package models

import "time"

// Envelope is the uniform result wrapper every dataset fetch returns.
// Exactly one of Data or Error is meaningful; consumers check Error
// presence first. Stale marks a last-good value served after a failed
// refresh.
type Envelope[T any] struct {
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Stale     bool      `json:"stale,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// Ok builds a success envelope.
func Ok[T any](data T, fetchedAt time.Time) Envelope[T] {
	return Envelope[T]{Data: &data, FetchedAt: fetchedAt}
}

// StaleOk builds a success envelope carrying an old value after a
// failed refresh.
func StaleOk[T any](data T, fetchedAt time.Time) Envelope[T] {
	return Envelope[T]{Data: &data, Stale: true, FetchedAt: fetchedAt}
}

// Fail builds a failure envelope.
func Fail[T any](message string) Envelope[T] {
	return Envelope[T]{Error: message}
}

// Failed reports whether the envelope carries an error.
func (e Envelope[T]) Failed() bool {
	return e.Error != ""
}

// Value returns the payload, or the zero value on failure.
func (e Envelope[T]) Value() T {
	if e.Data == nil {
		var zero T
		return zero
	}
	return *e.Data
}
