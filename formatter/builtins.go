package formatter

import (
	"time"

	"ndef-formatter/ndef"
	"ndef-formatter/primitive"
)

// ForKind returns the boxed builtin formatter of a primitive kind, nil for kinds
// without a builtin (primitive enums need their own value table).
func ForKind(kind primitive.KindEnum) ndef.Formatter {
	switch kind {
	default:
		return nil
	case primitive.KindInt:
		return NewSigned[int](kind.WireName()).Boxed()
	case primitive.KindInt8:
		return NewSigned[int8](kind.WireName()).Boxed()
	case primitive.KindInt16:
		return NewSigned[int16](kind.WireName()).Boxed()
	case primitive.KindInt32:
		return NewSigned[int32](kind.WireName()).Boxed()
	case primitive.KindInt64:
		return NewSigned[int64](kind.WireName()).Boxed()
	case primitive.KindUint:
		return NewUnsigned[uint](kind.WireName()).Boxed()
	case primitive.KindUint8:
		return NewUnsigned[uint8](kind.WireName()).Boxed()
	case primitive.KindUint16:
		return NewUnsigned[uint16](kind.WireName()).Boxed()
	case primitive.KindUint32:
		return NewUnsigned[uint32](kind.WireName()).Boxed()
	case primitive.KindUint64:
		return NewUnsigned[uint64](kind.WireName()).Boxed()
	case primitive.KindFloat32:
		return NewFloat[float32](kind.WireName()).Boxed()
	case primitive.KindFloat64:
		return NewFloat[float64](kind.WireName()).Boxed()
	case primitive.KindBool:
		return NewBool().Boxed()
	case primitive.KindString:
		return NewString().Boxed()
	case primitive.KindTime:
		return NewDateTimeOffset().Boxed()
	case primitive.KindDuration:
		return NewDuration().Boxed()
	}
}

// NullableForKind returns the boxed formatter of *T for the primitive kind T, nil for
// kinds without one. string has none: a blank payload already reads as nil.
func NullableForKind(kind primitive.KindEnum) ndef.Formatter {
	switch kind {
	default:
		return nil
	case primitive.KindInt:
		return NewNullable[int](NewInt()).Boxed()
	case primitive.KindInt8:
		return NewNullable[int8](NewInt8()).Boxed()
	case primitive.KindInt16:
		return NewNullable[int16](NewInt16()).Boxed()
	case primitive.KindInt32:
		return NewNullable[int32](NewInt32()).Boxed()
	case primitive.KindInt64:
		return NewNullable[int64](NewInt64()).Boxed()
	case primitive.KindUint:
		return NewNullable[uint](NewUint()).Boxed()
	case primitive.KindUint8:
		return NewNullable[uint8](NewUint8()).Boxed()
	case primitive.KindUint16:
		return NewNullable[uint16](NewUint16()).Boxed()
	case primitive.KindUint32:
		return NewNullable[uint32](NewUint32()).Boxed()
	case primitive.KindUint64:
		return NewNullable[uint64](NewUint64()).Boxed()
	case primitive.KindFloat32:
		return NewNullable[float32](NewFloat32()).Boxed()
	case primitive.KindFloat64:
		return NewNullable[float64](NewFloat64()).Boxed()
	case primitive.KindBool:
		return NewNullable[bool](NewBool()).Boxed()
	case primitive.KindTime:
		return NewNullable[time.Time](NewDateTimeOffset()).Boxed()
	case primitive.KindDuration:
		return NewNullable[time.Duration](NewDuration()).Boxed()
	}
}

// Builtins returns the boxed builtin formatters in registration order. When several
// formatters share a native type (int32 and char, the two time.Time formatters) the
// first one claims the type and the others are reachable by name only.
func Builtins() []ndef.Formatter {
	var out []ndef.Formatter
	for kind := primitive.KindEnum(1); int(kind) < primitive.KindTotal; kind++ {
		if f := ForKind(kind); f != nil {
			out = append(out, f)
		}
	}
	for kind := primitive.KindEnum(1); int(kind) < primitive.KindTotal; kind++ {
		if f := NullableForKind(kind); f != nil {
			out = append(out, f)
		}
	}

	return append(out,
		NewDecimal().Boxed(),
		NewChar().Boxed(),
		NewDateTime().Boxed(),
		NewBytes().Boxed(),
		NewSegment().Boxed(),
		NewBits().Boxed(),
		NewUUID().Boxed(),
		NewAny().Boxed(),

		NewSlice[any]("[]any").Boxed(),
		NewGrowable[any]("*[]any").Boxed(),
		NewSlice[string]("[]string").Boxed(),
		NewSlice[int]("[]int").Boxed(),
		NewSlice[int32]("[]int32").Boxed(),
		NewSlice[int64]("[]int64").Boxed(),
		NewSlice[float64]("[]float64").Boxed(),
		NewSlice[bool]("[]bool").Boxed(),
	)
}
