package deadletter

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// OptionalOf maps a nil pointer to None.
func OptionalOf[T any](value *T) Optional[T] {
	if value == nil {
		return None[T]()
	}

	return Some(*value)
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrZero returns the value, or the zero value of T when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return jsonNull, nil
	}

	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = None[T]()

		return nil
	}

	var value T

	err := json.Unmarshal(data, &value)
	if err != nil {
		return err
	}

	*o = Some(value)

	return nil
}
