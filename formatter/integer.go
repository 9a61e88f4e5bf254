package formatter

import (
	"reflect"
	"strconv"

	"ndef-formatter/ndef"
)

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed formats signed integers in base 10. The minimum value is the null sentinel.
type Signed[T signed] struct {
	scalar[T]
	bits int
	null T
}

func NewSigned[T signed](name string) *Signed[T] {
	bits := int(reflect.TypeFor[T]().Size()) * 8
	return &Signed[T]{
		scalar: newScalar[T](name),
		bits:   bits,
		null:   T(-1) << (bits - 1),
	}
}

func NewInt() *Signed[int]     { return NewSigned[int]("int") }
func NewInt8() *Signed[int8]   { return NewSigned[int8]("int8") }
func NewInt16() *Signed[int16] { return NewSigned[int16]("int16") }
func NewInt32() *Signed[int32] { return NewSigned[int32]("int32") }
func NewInt64() *Signed[int64] { return NewSigned[int64]("int64") }

// Null returns the sentinel standing for null.
func (f *Signed[T]) Null() T { return f.null }

func (f *Signed[T]) Format(v T) (string, error) {
	return strconv.FormatInt(int64(v), 10), nil
}

func (f *Signed[T]) Parse(text string) (T, error) {
	n, err := strconv.ParseInt(text, 10, f.bits)
	if err != nil {
		return f.null, ndef.FormatErrorf(f.name, text, err)
	}

	return T(n), nil
}

func (f *Signed[T]) ToNdefValue(_ reflect.Type, v T) (ndef.Value, error) {
	if v == f.null {
		return ndef.Null(), nil
	}

	return ndef.Scalar(strconv.FormatInt(int64(v), 10), true), nil
}

func (f *Signed[T]) FromNdefValue(_ reflect.Type, v ndef.Value) (T, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return f.null, err
	}

	return f.Parse(text)
}

func (f *Signed[T]) Boxed() ndef.Formatter { return Box[T](f) }

// Unsigned formats unsigned integers in base 10. The maximum value is the null sentinel.
type Unsigned[T unsigned] struct {
	scalar[T]
	bits int
	null T
}

func NewUnsigned[T unsigned](name string) *Unsigned[T] {
	return &Unsigned[T]{
		scalar: newScalar[T](name),
		bits:   int(reflect.TypeFor[T]().Size()) * 8,
		null:   ^T(0),
	}
}

func NewUint() *Unsigned[uint]     { return NewUnsigned[uint]("uint") }
func NewUint8() *Unsigned[uint8]   { return NewUnsigned[uint8]("uint8") }
func NewUint16() *Unsigned[uint16] { return NewUnsigned[uint16]("uint16") }
func NewUint32() *Unsigned[uint32] { return NewUnsigned[uint32]("uint32") }
func NewUint64() *Unsigned[uint64] { return NewUnsigned[uint64]("uint64") }

// Null returns the sentinel standing for null.
func (f *Unsigned[T]) Null() T { return f.null }

func (f *Unsigned[T]) Format(v T) (string, error) {
	return strconv.FormatUint(uint64(v), 10), nil
}

func (f *Unsigned[T]) Parse(text string) (T, error) {
	n, err := strconv.ParseUint(text, 10, f.bits)
	if err != nil {
		return f.null, ndef.FormatErrorf(f.name, text, err)
	}

	return T(n), nil
}

func (f *Unsigned[T]) ToNdefValue(_ reflect.Type, v T) (ndef.Value, error) {
	if v == f.null {
		return ndef.Null(), nil
	}

	return ndef.Scalar(strconv.FormatUint(uint64(v), 10), true), nil
}

func (f *Unsigned[T]) FromNdefValue(_ reflect.Type, v ndef.Value) (T, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return f.null, err
	}

	return f.Parse(text)
}

func (f *Unsigned[T]) Boxed() ndef.Formatter { return Box[T](f) }
