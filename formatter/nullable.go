package formatter

import (
	"reflect"
	"strings"

	"ndef-formatter/ndef"
)

// Nullable serves *T on top of the text capability of T. nil is null, a blank payload
// reads back as nil, and every other value goes through the bound codec, so the
// sentinel of T is an ordinary value here.
type Nullable[T any] struct {
	scalar[*T]
	codec Codec[T]
}

func NewNullable[T any](codec Codec[T]) *Nullable[T] {
	return &Nullable[T]{
		scalar: newScalar[*T](codec.SerializableTypeName() + "?"),
		codec:  codec,
	}
}

func (f *Nullable[T]) ToNdefValue(_ reflect.Type, v *T) (ndef.Value, error) {
	if v == nil {
		return ndef.Null(), nil
	}

	text, err := f.codec.Format(*v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Text(text), nil
}

func (f *Nullable[T]) FromNdefValue(_ reflect.Type, v ndef.Value) (*T, error) {
	text, missing, err := f.scalarText(v)
	if err != nil || missing || strings.TrimSpace(text) == "" {
		return nil, err
	}

	parsed, err := f.codec.Parse(text)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func (f *Nullable[T]) Boxed() ndef.Formatter { return Box[*T](f) }
