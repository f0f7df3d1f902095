package model

import (
	"fmt"

	"gradlens/internal/core/errors"
)

// Outcome is a two-case result used by every operation that crosses the
// tooling-service boundary. Exactly one of the cases holds: success with a
// value, or failure with a cause. Both cases may carry a free-form note for
// diagnostics. Failures travel as values, never as panics.
type Outcome[T any] struct {
	ok    bool
	value T
	cause error
	note  string
}

func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{ok: true, value: value}
}

func OkNote[T any](value T, note string) Outcome[T] {
	return Outcome[T]{ok: true, value: value, note: note}
}

func Fail[T any](cause error) Outcome[T] {
	return Outcome[T]{cause: cause}
}

func FailNote[T any](cause error, note string) Outcome[T] {
	return Outcome[T]{cause: cause, note: note}
}

func (o Outcome[T]) OK() bool {
	return o.ok
}

func (o Outcome[T]) Value() T {
	return o.value
}

func (o Outcome[T]) Cause() error {
	return o.cause
}

func (o Outcome[T]) Note() string {
	return o.note
}

// Err collapses a failed outcome into a single error. Returns nil for
// successful outcomes.
func (o Outcome[T]) Err() error {
	if o.ok {
		return nil
	}
	if o.cause != nil {
		if o.note != "" {
			return fmt.Errorf("%s: %w", o.note, o.cause)
		}
		return o.cause
	}
	if o.note != "" {
		return errors.New(errors.CodeInternal, o.note)
	}
	return errors.New(errors.CodeInternal, "unspecified failure")
}

// Detail renders the failure for human consumption, preferring the note.
func (o Outcome[T]) Detail() string {
	if o.note != "" {
		return o.note
	}
	if o.cause != nil {
		return o.cause.Error()
	}
	return "unspecified failure"
}

// ForwardErr re-wraps a failed Outcome[T] as a failed Outcome[U], preserving
// cause and note. It lets a lower-layer failure bubble into a higher-layer
// operation's return type without losing context. Calling it on a successful
// outcome is a programming error and yields an internal failure.
func ForwardErr[T, U any](o Outcome[T]) Outcome[U] {
	if o.ok {
		return Fail[U](errors.New(errors.CodeInternal, "forward of successful outcome"))
	}
	return Outcome[U]{cause: o.cause, note: o.note}
}
