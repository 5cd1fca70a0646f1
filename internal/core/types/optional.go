// Package types provides shared value types used across domain packages.
package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a three-state field for partial updates: unset (field absent
// from the request), null (explicitly cleared), or a concrete value.
//
// The zero value is unset. Decoding JSON null yields the null state, so
// `{"age": null}` stays distinguishable from a request without "age" —
// update paths must never collapse the two.
type Optional[T any] struct {
	set   bool
	valid bool
	value T
}

// Unset returns an Optional in the unset state.
func Unset[T any]() Optional[T] {
	return Optional[T]{}
}

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// Value returns an Optional holding v.
func Value[T any](v T) Optional[T] {
	return Optional[T]{set: true, valid: true, value: v}
}

// IsSet reports whether the field was provided at all (value or null).
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsNull reports whether the field was provided as explicit null.
func (o Optional[T]) IsNull() bool {
	return o.set && !o.valid
}

// Get returns the held value and whether one is present.
// ok is false for both the unset and null states.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// MustGet returns the held value, panicking if none is present.
// Use only in tests.
func (o Optional[T]) MustGet() T {
	if !o.valid {
		panic("types: MustGet on empty Optional")
	}
	return o.value
}

// UnmarshalJSON implements json.Unmarshaler.
// It is only invoked when the key is present, so absence keeps the zero
// (unset) state.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, []byte("null")) {
		o.valid = false
		var zero T
		o.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

// MarshalJSON implements json.Marshaler. Unset and null both encode as
// null; callers that care about the distinction should check IsSet first.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
