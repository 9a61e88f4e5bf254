package formatter

import (
	"fmt"
	"reflect"
	"strings"

	"ndef-formatter/ndef"
)

// Codec is the bound text capability of a scalar type.
type Codec[T any] interface {
	SerializableTypeName() string
	Format(value T) (string, error)
	Parse(text string) (T, error)
}

// scalar carries the identity of a scalar formatter and rejects every structural call.
type scalar[T any] struct {
	name   string
	formal reflect.Type
}

func newScalar[T any](name string) scalar[T] {
	return scalar[T]{name: name, formal: reflect.TypeFor[T]()}
}

func (s scalar[T]) FormalType() reflect.Type     { return s.formal }
func (s scalar[T]) SerializableTypeName() string { return s.name }

func (s scalar[T]) ToNdefElements(T, []int) ([]ndef.Element, error) {
	return nil, ndef.UnsupportedErrorf(s.name, "ToNdefElements")
}

func (s scalar[T]) FromNdefElements(T, []ndef.Element) error {
	return ndef.UnsupportedErrorf(s.name, "FromNdefElements")
}

func (s scalar[T]) CreateObjectInstance(reflect.Type, *ndef.ObjectHeader) (T, error) {
	var zero T
	return zero, ndef.UnsupportedErrorf(s.name, "CreateObjectInstance")
}

// scalarText returns the payload of a scalar value. missing is true for undefined and
// null values, whose payload is treated as absent.
func (s scalar[T]) scalarText(v ndef.Value) (text string, missing bool, err error) {
	switch v.Kind() {
	case ndef.ValueUndefined, ndef.ValueNull:
		return "", true, nil
	case ndef.ValueScalar:
		return v.ScalarText(), false, nil
	default:
		return "", false, fmt.Errorf("%w: %s expects a scalar, got %s", ndef.ErrInvalidValue, s.name, v.Kind())
	}
}

// sentinelText is like scalarText but also treats a blank payload as absent.
func (s scalar[T]) sentinelText(v ndef.Value) (string, bool, error) {
	text, missing, err := s.scalarText(v)
	if err != nil || missing {
		return "", missing, err
	}

	if strings.TrimSpace(text) == "" {
		return "", true, nil
	}

	return text, false, nil
}
