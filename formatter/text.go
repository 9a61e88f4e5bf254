package formatter

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"ndef-formatter/ndef"
)

// CharNull is the rune reserved as null by the char formatter.
const CharNull = unicode.MaxRune

// Char formats a single rune as its UTF-8 text. rune shares its native type with
// int32, so the registry binds Char by name only.
type Char struct {
	scalar[rune]
}

func NewChar() *Char {
	return &Char{scalar: newScalar[rune]("char")}
}

func (f *Char) Null() rune { return CharNull }

// Format rejects surrogates, negative values and values above unicode.MaxRune: they
// have no UTF-8 text.
func (f *Char) Format(v rune) (string, error) {
	if !utf8.ValidRune(v) {
		return "", fmt.Errorf("%w: %s cannot hold %#x", ndef.ErrInvalidValue, f.name, v)
	}

	return string(v), nil
}

func (f *Char) Parse(text string) (rune, error) {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || size != len(text) || (r == utf8.RuneError && size == 1) {
		return CharNull, ndef.FormatErrorf(f.name, text, nil)
	}

	return r, nil
}

func (f *Char) ToNdefValue(_ reflect.Type, v rune) (ndef.Value, error) {
	if v == CharNull {
		return ndef.Null(), nil
	}

	text, err := f.Format(v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Scalar(text, v != '\n' && v != '\r'), nil
}

// FromNdefValue only treats an empty payload as null: whitespace is a valid char.
func (f *Char) FromNdefValue(_ reflect.Type, v ndef.Value) (rune, error) {
	text, missing, err := f.scalarText(v)
	if err != nil || missing || text == "" {
		return CharNull, err
	}

	return f.Parse(text)
}

func (f *Char) Boxed() ndef.Formatter { return Box[rune](f) }

// String formats strings verbatim. The empty string stands for null.
type String struct {
	scalar[string]
}

func NewString() *String {
	return &String{scalar: newScalar[string]("string")}
}

func (f *String) Format(v string) (string, error)  { return v, nil }
func (f *String) Parse(text string) (string, error) { return text, nil }

func (f *String) ToNdefValue(_ reflect.Type, v string) (ndef.Value, error) {
	if v == "" {
		return ndef.Null(), nil
	}

	return ndef.Text(v), nil
}

func (f *String) FromNdefValue(_ reflect.Type, v ndef.Value) (string, error) {
	text, _, err := f.scalarText(v)
	return text, err
}

func (f *String) Boxed() ndef.Formatter { return Box[string](f) }
