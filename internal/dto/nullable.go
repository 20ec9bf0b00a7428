package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a JSON field was present at all, so that an explicit
// null can be told apart from an omitted key.
type Nullable[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present, non-null value.
func Set[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Value: &v}
}

// Null returns a present null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true}
}

// IsNull reports whether the field was sent as null.
func (n Nullable[T]) IsNull() bool {
	return n.Present && n.Value == nil
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
