package ndef

import "reflect"

// AnyType is the universal slot type handled by the polymorphic formatter.
var AnyType = reflect.TypeFor[any]()

// Element is one field (or list item) of an object node.
type Element struct {
	Number int
	Value  Value
}

// Formatter is the dynamically dispatched view of a formatter. Every concrete
// formatter exposes one through TypedFormatter.Boxed.
type Formatter interface {
	FormalType() reflect.Type
	// SerializableTypeName is the wire-level name; empty for anonymous structural types.
	SerializableTypeName() string

	ToNdefValue(formal reflect.Type, value any) (Value, error)
	FromNdefValue(formal reflect.Type, value Value) (any, error)
	ToNdefElements(obj any, fields []int) ([]Element, error)
	FromNdefElements(obj any, elements []Element) error
	CreateObjectInstance(formal reflect.Type, header *ObjectHeader) (any, error)
}

// TypedFormatter is the statically typed capability contract for native type T.
//
// ToNdefElements and FromNdefElements are only served by object-shaped formatters;
// scalar formatters fail them with ErrUnsupportedOperation. CreateObjectInstance is
// invoked at most once per graph node, before any element is populated.
type TypedFormatter[T any] interface {
	FormalType() reflect.Type
	SerializableTypeName() string

	ToNdefValue(formal reflect.Type, value T) (Value, error)
	FromNdefValue(formal reflect.Type, value Value) (T, error)
	ToNdefElements(obj T, fields []int) ([]Element, error)
	FromNdefElements(obj T, elements []Element) error
	CreateObjectInstance(formal reflect.Type, header *ObjectHeader) (T, error)

	Boxed() Formatter
}

// Initializer is implemented by formatters that resolve collaborators from the binder.
// The registry calls Initialize once per formatter while sealing.
type Initializer interface {
	Initialize(binder Binder) error
}

// Configurer is implemented by formatters that wire themselves to other formatters.
// Configure runs after every registered formatter has been initialized.
type Configurer interface {
	Configure(binder Binder) error
}

// Binder resolves type information. Implementations must be safe for concurrent lookups.
type Binder interface {
	// LookupTypeInfo resolves by the runtime type of value.
	LookupTypeInfo(value any) (*TypeInfo, error)
	LookupTypeInfoByName(name string) (*TypeInfo, error)
	LookupTypeInfoByType(t reflect.Type) (*TypeInfo, error)
	// PreferredListType is the container used to materialise untyped lists of elem.
	PreferredListType(elem reflect.Type) reflect.Type
	// IdentityRoot is the identity-bearing root type, nil when none is designated.
	IdentityRoot() reflect.Type
}

// TypeInfo binds a wire name and a native type to a formatter.
// It is owned by the binder; formatters only consult it.
type TypeInfo struct {
	Name      string
	Type      reflect.Type
	Formatter Formatter
}

// NewTypeInfo describes f under its own name and formal type.
func NewTypeInfo(f Formatter) *TypeInfo {
	return &TypeInfo{
		Name:      f.SerializableTypeName(),
		Type:      f.FormalType(),
		Formatter: f,
	}
}

func (ti *TypeInfo) String() string {
	if ti == nil {
		return "<nil>"
	}

	if ti.Name != "" {
		return ti.Name
	}

	return typeString(ti.Type)
}
