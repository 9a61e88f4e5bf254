package ndef

// ObjectHeader is the metadata of an object node being deserialized.
type ObjectHeader struct {
	// TypeName is the explicit wire type name. For list nodes an empty name is the
	// untyped list marker.
	TypeName string
	Kind     ObjectKindEnum
	// Length is the number of elements of the node, set by the reader.
	Length int

	typeInfo *TypeInfo
}

// TypeInfo returns the resolved type information, nil while unresolved.
func (h *ObjectHeader) TypeInfo() *TypeInfo { return h.typeInfo }

func (h *ObjectHeader) SetTypeInfo(ti *TypeInfo) { h.typeInfo = ti }

// ResolveTypeInfo returns the cached type information or resolves and caches it.
func (h *ObjectHeader) ResolveTypeInfo(resolve func(h *ObjectHeader) (*TypeInfo, error)) (*TypeInfo, error) {
	if h.typeInfo != nil {
		return h.typeInfo, nil
	}

	ti, err := resolve(h)
	if err != nil {
		return nil, err
	}

	h.typeInfo = ti
	return ti, nil
}

// IsUntypedList reports whether the header marks a list without element type tag.
func (h *ObjectHeader) IsUntypedList() bool {
	return h.Kind == ObjectKindList && h.TypeName == ""
}

// Object is a graph node on the read path. It owns its header and the single
// instance shared by every reference to it.
type Object struct {
	Header   ObjectHeader
	Elements []Element

	state    ResolutionEnum
	instance any
}

func (o *Object) State() ResolutionEnum { return o.state }

// DeserializedInstance returns the cached instance once the factory has run.
func (o *Object) DeserializedInstance() (any, bool) {
	if o.state == Unresolved {
		return nil, false
	}

	return o.instance, true
}
