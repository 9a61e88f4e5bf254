package ndef

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrFormat               = errors.New("ndef: format error")
	ErrUnsupportedOperation = errors.New("ndef: unsupported operation")
	ErrInvalidValue         = errors.New("ndef: invalid value")
	ErrUnknownType          = errors.New("ndef: unknown type")
	ErrNotSupported         = errors.New("ndef: not supported")
)

// FormatErrorf reports text that does not parse as the named type.
func FormatErrorf(typeName, text string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %q is not a valid %s: %w", ErrFormat, text, typeName, cause)
	}

	return fmt.Errorf("%w: %q is not a valid %s", ErrFormat, text, typeName)
}

// UnsupportedErrorf reports a structural call that the formatter cannot serve.
func UnsupportedErrorf(typeName, operation string) error {
	return fmt.Errorf("%w: %s is not available for %s", ErrUnsupportedOperation, operation, typeName)
}

// UnknownTypeError reports a registry miss for a native type.
func UnknownTypeError(t reflect.Type) error {
	return fmt.Errorf("%w: %s", ErrUnknownType, typeString(t))
}

// UnknownNameError reports a registry miss for a wire-level type name.
func UnknownNameError(name string) error {
	return fmt.Errorf("%w: no type is registered under %q", ErrUnknownType, name)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}
