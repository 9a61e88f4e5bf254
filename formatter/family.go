package formatter

import (
	"encoding"
	"reflect"

	"github.com/bits-and-blooms/bitset"
	"github.com/shopspring/decimal"

	"ndef-formatter/primitive"
)

type FamilyEnum int

const (
	FamilyUnknown FamilyEnum = iota
	FamilyScalar
	FamilyAny
	FamilyList
	FamilyObject

	// FamilyTotal is a constant that represents the total number of families defined
	FamilyTotal = int(iota)
)

func (f FamilyEnum) String() string {
	switch f {
	case FamilyScalar:
		return "scalar"
	case FamilyAny:
		return "any"
	case FamilyList:
		return "list"
	case FamilyObject:
		return "object"
	default:
		return "unknown"
	}
}

var (
	bytesType         = reflect.TypeFor[[]byte]()
	segmentType       = reflect.TypeFor[Segment]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

	scalarTypes = map[reflect.Type]struct{}{
		bytesType:                          {},
		segmentType:                        {},
		reflect.TypeFor[*bitset.BitSet]():  {},
		reflect.TypeFor[decimal.Decimal](): {},
	}
)

// Classify sorts a native type into the formatter family able to serve it.
func Classify(t reflect.Type) FamilyEnum {
	if t == nil {
		return FamilyUnknown
	}

	if t.Kind() == reflect.Interface {
		return FamilyAny
	}

	if _, ok := scalarTypes[t]; ok || primitive.FromReflectType(t) != 0 {
		return FamilyScalar
	}

	// uuid.UUID and similar named values know their own text form
	if t.Kind() != reflect.Ptr && t.Implements(textMarshalerType) {
		return FamilyScalar
	}

	if elementOf(t) != nil {
		return FamilyList
	}

	if t.Kind() == reflect.Ptr {
		if hasNullable(primitive.FromReflectType(t.Elem())) {
			return FamilyScalar
		}

		if base(t).Kind() == reflect.Struct {
			return FamilyObject
		}
	}

	return FamilyUnknown
}

// hasNullable reports whether the builtins serve *T for T of the kind.
func hasNullable(k primitive.KindEnum) bool {
	return k != 0 && k != primitive.KindPrimitiveEnum && k != primitive.KindString
}

func base(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// elementOf returns the element type of slice, array and pointer-to-slice types,
// nil for anything else.
func elementOf(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		return t.Elem()
	}

	return nil
}

func isNil[T any](v T) bool {
	x := any(v)
	if x == nil {
		return true
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
