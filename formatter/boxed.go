package formatter

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
)

// Boxed presents a statically typed formatter under the dynamically dispatched
// contract. Native nil maps to ndef.Null and back to an untyped nil; anything else
// must be a T.
type Boxed[T any] struct {
	inner ndef.TypedFormatter[T]
}

// Box wraps f. Boxing a boxed formatter is not possible by construction, since the
// adapter is only built from typed formatters.
func Box[T any](f ndef.TypedFormatter[T]) *Boxed[T] {
	return &Boxed[T]{inner: f}
}

// Unbox returns the typed formatter behind f when f boxes a formatter of T.
func Unbox[T any](f ndef.Formatter) (ndef.TypedFormatter[T], bool) {
	b, ok := f.(*Boxed[T])
	if !ok {
		return nil, false
	}

	return b.inner, true
}

func (b *Boxed[T]) Unwrap() ndef.TypedFormatter[T] { return b.inner }
func (b *Boxed[T]) FormalType() reflect.Type       { return b.inner.FormalType() }
func (b *Boxed[T]) SerializableTypeName() string   { return b.inner.SerializableTypeName() }

func (b *Boxed[T]) ToNdefValue(formal reflect.Type, value any) (ndef.Value, error) {
	if value == nil {
		return ndef.Null(), nil
	}

	v, err := b.narrow(value)
	if err != nil {
		return ndef.Value{}, err
	}

	return b.inner.ToNdefValue(formal, v)
}

func (b *Boxed[T]) FromNdefValue(formal reflect.Type, value ndef.Value) (any, error) {
	v, err := b.inner.FromNdefValue(formal, value)
	if err != nil || isNil(v) {
		return nil, err
	}

	return v, nil
}

func (b *Boxed[T]) ToNdefElements(obj any, fields []int) ([]ndef.Element, error) {
	v, err := b.narrow(obj)
	if err != nil {
		return nil, err
	}

	return b.inner.ToNdefElements(v, fields)
}

func (b *Boxed[T]) FromNdefElements(obj any, elements []ndef.Element) error {
	v, err := b.narrow(obj)
	if err != nil {
		return err
	}

	return b.inner.FromNdefElements(v, elements)
}

func (b *Boxed[T]) CreateObjectInstance(formal reflect.Type, header *ndef.ObjectHeader) (any, error) {
	v, err := b.inner.CreateObjectInstance(formal, header)
	if err != nil || isNil(v) {
		return nil, err
	}

	return v, nil
}

// Initialize forwards the registry hook to the boxed formatter.
func (b *Boxed[T]) Initialize(binder ndef.Binder) error {
	if i, ok := b.inner.(ndef.Initializer); ok {
		return i.Initialize(binder)
	}

	return nil
}

// Configure forwards the registry hook to the boxed formatter.
func (b *Boxed[T]) Configure(binder ndef.Binder) error {
	if c, ok := b.inner.(ndef.Configurer); ok {
		return c.Configure(binder)
	}

	return nil
}

func (b *Boxed[T]) narrow(value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s cannot hold a value of type %T",
			ndef.ErrInvalidValue, b.inner.SerializableTypeName(), value)
	}

	return v, nil
}
