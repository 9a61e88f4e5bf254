package formatter

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
)

// Any serves slots declared with an interface type. Values are written through the
// boxed formatter of their runtime type; scalars written through an exactly "any" slot
// carry their actual type name so the reader can recover the concrete type.
type Any struct {
	scalar[any]
	binder ndef.Binder
}

func NewAny() *Any {
	return &Any{scalar: newScalar[any]("any")}
}

func (f *Any) Initialize(binder ndef.Binder) error {
	f.binder = binder
	return nil
}

func (f *Any) ToNdefValue(formal reflect.Type, v any) (ndef.Value, error) {
	if v == nil {
		return ndef.Null(), nil
	}

	if f.binder == nil {
		return ndef.Value{}, f.unbound()
	}

	ti, err := f.binder.LookupTypeInfo(v)
	if err != nil {
		return ndef.Value{}, err
	}

	value, err := ti.Formatter.ToNdefValue(formal, v)
	if err != nil {
		return ndef.Value{}, err
	}

	if formal == ndef.AnyType && value.IsScalar() {
		value = value.WithActualSerializableTypeName(ti.Name)
	}

	return value, nil
}

func (f *Any) FromNdefValue(formal reflect.Type, v ndef.Value) (any, error) {
	switch v.Kind() {
	default:
		return nil, nil

	case ndef.ValueObject:
		return f.fromObject(formal, v)

	case ndef.ValueScalar:
		name := v.ActualSerializableTypeName()
		if name == "" {
			return v.ScalarText(), nil
		}

		if formal != ndef.AnyType {
			return nil, fmt.Errorf("%w: scalar of type %s cannot be unboxed through a %s slot",
				ndef.ErrUnsupportedOperation, name, formal)
		}

		if f.binder == nil {
			return nil, f.unbound()
		}

		ti, err := f.binder.LookupTypeInfoByName(name)
		if err != nil {
			return nil, err
		}

		return ti.Formatter.FromNdefValue(ti.Type, v)
	}
}

// fromObject resolves the node type by its explicit name or, for untyped lists, by the
// preferred list container of the element type expected by the slot.
func (f *Any) fromObject(formal reflect.Type, v ndef.Value) (any, error) {
	ref, err := nodeOf(f.name, v)
	if err != nil {
		return nil, err
	}

	if f.binder == nil {
		return nil, f.unbound()
	}

	header := &ref.Object().Header
	ti, err := header.ResolveTypeInfo(func(h *ndef.ObjectHeader) (*ndef.TypeInfo, error) {
		switch {
		case h.TypeName != "":
			return f.binder.LookupTypeInfoByName(h.TypeName)
		case h.Kind == ndef.ObjectKindList:
			elem := elementOf(formal)
			if elem == nil {
				elem = ndef.AnyType
			}
			return f.binder.LookupTypeInfoByType(f.binder.PreferredListType(elem))
		default:
			return nil, fmt.Errorf("%w: node #%d has neither a type name nor a list kind",
				ndef.ErrInvalidValue, ref.ID())
		}
	})
	if err != nil {
		return nil, err
	}

	return ref.Instance(formal, ti)
}

func (f *Any) Boxed() ndef.Formatter { return Box[any](f) }

func (f *Any) unbound() error {
	return fmt.Errorf("%w: %s is not initialized with a binder", ndef.ErrUnknownType, f.name)
}
