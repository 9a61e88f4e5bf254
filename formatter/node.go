package formatter

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
)

// selfInfo returns the type information the binder holds for f, or a private one
// when f is used outside of a registry.
func selfInfo(binder ndef.Binder, f ndef.Formatter) *ndef.TypeInfo {
	if binder != nil {
		ti, err := binder.LookupTypeInfoByType(f.FormalType())
		if err == nil && ti.Name == f.SerializableTypeName() {
			return ti
		}
	}

	return ndef.NewTypeInfo(f)
}

// nodeOf returns the graph node of a read-path object value.
func nodeOf(name string, v ndef.Value) (ndef.NodeRef, error) {
	if !v.IsObject() {
		return ndef.NodeRef{}, fmt.Errorf("%w: %s expects an object, got %s", ndef.ErrInvalidValue, name, v.Kind())
	}

	ref, ok := v.AsNestedObjectToDeserialize()
	if !ok {
		return ndef.NodeRef{}, fmt.Errorf("%w: %s got a live object instead of a graph node", ndef.ErrInvalidValue, name)
	}

	return ref, nil
}

// instanceOf resolves the header of the node (explicit type name first, self otherwise)
// and returns the shared instance as a T.
func instanceOf[T any](binder ndef.Binder, self *ndef.TypeInfo, formal reflect.Type, ref ndef.NodeRef) (T, error) {
	var zero T

	header := &ref.Object().Header
	ti, err := header.ResolveTypeInfo(func(h *ndef.ObjectHeader) (*ndef.TypeInfo, error) {
		if h.TypeName == "" || h.TypeName == self.Name {
			return self, nil
		}

		if binder == nil {
			return nil, ndef.UnknownNameError(h.TypeName)
		}

		return binder.LookupTypeInfoByName(h.TypeName)
	})
	if err != nil {
		return zero, err
	}

	instance, err := ref.Instance(formal, ti)
	if err != nil {
		return zero, err
	}

	v, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: node #%d materialised as %T, not %s",
			ndef.ErrInvalidValue, ref.ID(), instance, self)
	}

	return v, nil
}
