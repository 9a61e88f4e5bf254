package formatter

import (
	"math"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"

	"ndef-formatter/ndef"
)

type float interface {
	~float32 | ~float64
}

// Float formats floating point numbers with the shortest text that parses back to the
// same value. The most negative finite value is the null sentinel.
type Float[T float] struct {
	scalar[T]
	bits int
	null T
}

func NewFloat[T float](name string) *Float[T] {
	bits := int(reflect.TypeFor[T]().Size()) * 8

	limit := math.MaxFloat64
	if bits == 32 {
		limit = math.MaxFloat32
	}

	return &Float[T]{
		scalar: newScalar[T](name),
		bits:   bits,
		null:   T(-limit),
	}
}

func NewFloat32() *Float[float32] { return NewFloat[float32]("float32") }
func NewFloat64() *Float[float64] { return NewFloat[float64]("float64") }

// Null returns the sentinel standing for null.
func (f *Float[T]) Null() T { return f.null }

func (f *Float[T]) Format(v T) (string, error) {
	return strconv.FormatFloat(float64(v), 'g', -1, f.bits), nil
}

func (f *Float[T]) Parse(text string) (T, error) {
	n, err := strconv.ParseFloat(text, f.bits)
	if err != nil {
		return f.null, ndef.FormatErrorf(f.name, text, err)
	}

	return T(n), nil
}

func (f *Float[T]) ToNdefValue(_ reflect.Type, v T) (ndef.Value, error) {
	if v == f.null {
		return ndef.Null(), nil
	}

	text, _ := f.Format(v)
	return ndef.Scalar(text, true), nil
}

func (f *Float[T]) FromNdefValue(_ reflect.Type, v ndef.Value) (T, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return f.null, err
	}

	return f.Parse(text)
}

func (f *Float[T]) Boxed() ndef.Formatter { return Box[T](f) }

// DecimalNull is the most negative value of a 96-bit decimal, reserved as null.
var DecimalNull = decimal.RequireFromString("-79228162514264337593543950335")

// Decimal formats arbitrary precision decimals without exponent.
type Decimal struct {
	scalar[decimal.Decimal]
}

func NewDecimal() *Decimal {
	return &Decimal{scalar: newScalar[decimal.Decimal]("decimal")}
}

func (f *Decimal) Null() decimal.Decimal { return DecimalNull }

func (f *Decimal) Format(v decimal.Decimal) (string, error) {
	return v.String(), nil
}

func (f *Decimal) Parse(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return DecimalNull, ndef.FormatErrorf(f.name, text, err)
	}

	return d, nil
}

func (f *Decimal) ToNdefValue(_ reflect.Type, v decimal.Decimal) (ndef.Value, error) {
	if v.Equal(DecimalNull) {
		return ndef.Null(), nil
	}

	return ndef.Scalar(v.String(), true), nil
}

func (f *Decimal) FromNdefValue(_ reflect.Type, v ndef.Value) (decimal.Decimal, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return DecimalNull, err
	}

	return f.Parse(text)
}

func (f *Decimal) Boxed() ndef.Formatter { return Box[decimal.Decimal](f) }
