package schema

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a sparse update payload. The zero value is unset
// and is dropped from the JSON object through the omitzero tag option; a
// set Optional with a nil value is sent as an explicit null.
type Optional[T any] struct {
	set   bool
	value *T
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: &v}
}

// SetPtr sets the field to *p, or to null when p is nil.
func SetPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{set: true}
	}
	v := *p
	return Optional[T]{set: true, value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

func (o Optional[T]) IsZero() bool {
	return !o.set
}

// Get returns the value and whether the field was set at all.
func (o Optional[T]) Get() (*T, bool) {
	return o.value, o.set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}
