package formatter

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ndef-formatter/ndef"
)

// ParseFunc is the "parse from text" capability bound to a Parse formatter.
type ParseFunc[T any] func(text string) (T, error)

// FormatFunc is the inverse of ParseFunc.
type FormatFunc[T any] func(value T) (string, error)

// Parse serves any scalar-like type through a parse and a format function chosen once
// at construction. Without a sentinel the formatter never writes null and reads null
// as the zero value.
type Parse[T comparable] struct {
	scalar[T]
	parse   ParseFunc[T]
	format  FormatFunc[T]
	null    T
	hasNull bool
}

type ParseOption[T comparable] func(*Parse[T])

// WithNull reserves null as the sentinel standing for null.
func WithNull[T comparable](null T) ParseOption[T] {
	return func(p *Parse[T]) {
		p.null = null
		p.hasNull = true
	}
}

func NewParse[T comparable](name string, parse ParseFunc[T], format FormatFunc[T], opts ...ParseOption[T]) *Parse[T] {
	p := &Parse[T]{
		scalar: newScalar[T](name),
		parse:  parse,
		format: format,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type enum interface {
	comparable
	fmt.Stringer
}

// NewEnum binds a name lookup over values as the parse capability and String as the
// format capability.
func NewEnum[T enum](name string, values []T, opts ...ParseOption[T]) *Parse[T] {
	byName := make(map[string]T, len(values))
	for _, v := range values {
		byName[v.String()] = v
	}

	parse := func(text string) (T, error) {
		v, ok := byName[text]
		if !ok {
			var zero T
			return zero, fmt.Errorf("unknown %s name", name)
		}

		return v, nil
	}

	format := func(v T) (string, error) { return v.String(), nil }

	return NewParse[T](name, parse, format, opts...)
}

type textUnmarshaler[T any] interface {
	*T
	encoding.TextUnmarshaler
}

// NewText binds the type's own MarshalText/UnmarshalText pair.
func NewText[T interface {
	comparable
	encoding.TextMarshaler
}, PT textUnmarshaler[T]](name string, opts ...ParseOption[T]) *Parse[T] {
	parse := func(text string) (T, error) {
		var v T
		err := PT(&v).UnmarshalText([]byte(text))
		return v, err
	}

	format := func(v T) (string, error) {
		data, err := v.MarshalText()
		return string(data), err
	}

	return NewParse[T](name, parse, format, opts...)
}

// NewBool formats booleans as "true"/"false". bool has no spare value for a sentinel.
func NewBool() *Parse[bool] {
	return NewParse[bool]("bool", strconv.ParseBool, func(v bool) (string, error) {
		return strconv.FormatBool(v), nil
	})
}

// NewDuration formats durations as time.Duration text ("1h2m3s").
func NewDuration() *Parse[time.Duration] {
	return NewParse[time.Duration]("duration", time.ParseDuration, func(v time.Duration) (string, error) {
		return v.String(), nil
	}, WithNull(time.Duration(math.MinInt64)))
}

// NewUUID formats UUIDs in their canonical hyphenated form; uuid.Nil is null.
func NewUUID() *Parse[uuid.UUID] {
	return NewText[uuid.UUID]("uuid", WithNull(uuid.Nil))
}

// Null returns the sentinel and whether one is reserved.
func (f *Parse[T]) Null() (T, bool) { return f.null, f.hasNull }

func (f *Parse[T]) Format(v T) (string, error) {
	text, err := f.format(v)
	if err != nil {
		return "", fmt.Errorf("%s: failed to format %v: %w", f.name, v, err)
	}

	return text, nil
}

func (f *Parse[T]) Parse(text string) (T, error) {
	v, err := f.parse(text)
	if err != nil {
		return f.null, ndef.FormatErrorf(f.name, text, err)
	}

	return v, nil
}

func (f *Parse[T]) ToNdefValue(_ reflect.Type, v T) (ndef.Value, error) {
	if f.hasNull && v == f.null {
		return ndef.Null(), nil
	}

	text, err := f.Format(v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Text(text), nil
}

func (f *Parse[T]) FromNdefValue(_ reflect.Type, v ndef.Value) (T, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return f.null, err
	}

	return f.Parse(text)
}

func (f *Parse[T]) Boxed() ndef.Formatter { return Box[T](f) }
