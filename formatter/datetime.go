package formatter

import (
	"fmt"
	"reflect"
	"time"

	"ndef-formatter/ndef"
)

// DateTime formats instants as RFC 3339 text in UTC and normalises parsed values to UTC.
// The zero time.Time is the null sentinel. Years outside 0000-9999 are rejected.
type DateTime struct {
	scalar[time.Time]
	layout string
}

func NewDateTime() *DateTime {
	return &DateTime{scalar: newScalar[time.Time]("datetime"), layout: time.RFC3339Nano}
}

func (f *DateTime) Format(v time.Time) (string, error) {
	return formatInstant(f.name, f.layout, v.UTC())
}

func (f *DateTime) Parse(text string) (time.Time, error) {
	t, err := time.Parse(f.layout, text)
	if err != nil {
		return time.Time{}, ndef.FormatErrorf(f.name, text, err)
	}

	return t.UTC(), nil
}

func (f *DateTime) ToNdefValue(_ reflect.Type, v time.Time) (ndef.Value, error) {
	if v.IsZero() {
		return ndef.Null(), nil
	}

	text, err := f.Format(v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Scalar(text, true), nil
}

func (f *DateTime) FromNdefValue(_ reflect.Type, v ndef.Value) (time.Time, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return time.Time{}, err
	}

	return f.Parse(text)
}

func (f *DateTime) Boxed() ndef.Formatter { return Box[time.Time](f) }

// DateTimeOffset formats instants as RFC 3339 text keeping their UTC offset.
// The zero time.Time is the null sentinel. Years outside 0000-9999 are rejected.
type DateTimeOffset struct {
	scalar[time.Time]
	layout string
}

func NewDateTimeOffset() *DateTimeOffset {
	return &DateTimeOffset{scalar: newScalar[time.Time]("datetimeoffset"), layout: time.RFC3339Nano}
}

func (f *DateTimeOffset) Format(v time.Time) (string, error) {
	return formatInstant(f.name, f.layout, v)
}

func (f *DateTimeOffset) Parse(text string) (time.Time, error) {
	t, err := time.Parse(f.layout, text)
	if err != nil {
		return time.Time{}, ndef.FormatErrorf(f.name, text, err)
	}

	return t, nil
}

func (f *DateTimeOffset) ToNdefValue(_ reflect.Type, v time.Time) (ndef.Value, error) {
	if v.IsZero() {
		return ndef.Null(), nil
	}

	text, err := f.Format(v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Scalar(text, true), nil
}

func (f *DateTimeOffset) FromNdefValue(_ reflect.Type, v ndef.Value) (time.Time, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return time.Time{}, err
	}

	return f.Parse(text)
}

func (f *DateTimeOffset) Boxed() ndef.Formatter { return Box[time.Time](f) }

// formatInstant formats v with layout. RFC 3339 has four digit years only.
func formatInstant(name, layout string, v time.Time) (string, error) {
	if year := v.Year(); year < 0 || year > 9999 {
		return "", fmt.Errorf("%w: %s cannot hold year %d", ndef.ErrInvalidValue, name, year)
	}

	return v.Format(layout), nil
}
