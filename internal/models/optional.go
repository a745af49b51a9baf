package models

import "encoding/json"

// Optional holds a value that may be absent. The zero value is absent.
//
// Absent maps to SQL NULL and to JSON null.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present [Optional] holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent [Optional].
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a nil-able pointer into an [Optional].
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Optional[T]) IsSome() bool {
	return o.ok
}

// OrElse returns the held value, or d when absent.
func (o Optional[T]) OrElse(d T) T {
	if !o.ok {
		return d
	}
	return o.value
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

// MarshalJSON encodes an absent value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Field is one slot of a merge-patch.
//
// The zero value is omitted: the stored column is left unchanged.
// A present field overwrites the stored column, and its value may itself be absent to store NULL.
type Field[T any] struct {
	present bool
	value   Optional[T]
}

// Set returns a present [Field] that overwrites the column with v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: Some(v)}
}

// SetNull returns a present [Field] that overwrites the column with NULL.
func SetNull[T any]() Field[T] {
	return Field[T]{present: true}
}

// Omit returns an omitted [Field].
func Omit[T any]() Field[T] {
	return Field[T]{}
}

// Present reports whether the field was supplied by the caller.
func (f Field[T]) Present() bool {
	return f.present
}

// Value returns the value the field would write. Only meaningful when [Field.Present] is true.
func (f Field[T]) Value() Optional[T] {
	return f.value
}
