package ndef

import (
	"strconv"
	"strings"
)

// Value is the neutral tagged node all formatters convert to and from.
// The zero Value is Undefined.
type Value struct {
	kind           ValueKindEnum
	text           string
	hasNoLineFeeds bool
	actualTypeName string
	toSerialize    *ObjectToSerialize
	node           NodeRef
}

// ObjectToSerialize is a live instance handed to the writer together with the
// formatter able to decompose it into elements.
type ObjectToSerialize struct {
	Instance  any
	Formatter Formatter
	// TypeName is the explicit wire type name. Empty means "use the slot formatter"
	// for objects and marks an untyped list for lists.
	TypeName string
	Kind     ObjectKindEnum
}

// Undefined returns the value of an absent slot.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: ValueNull} }

// Scalar returns a textual value. hasNoLineFeeds is a promise of the formatter that
// text never contains line breaks, so the writer may skip escaping.
func Scalar(text string, hasNoLineFeeds bool) Value {
	return Value{kind: ValueScalar, text: text, hasNoLineFeeds: hasNoLineFeeds}
}

// Text returns a scalar value and computes the line feed hint from the text itself.
func Text(text string) Value {
	return Scalar(text, !strings.ContainsAny(text, "\r\n"))
}

// ObjectValue wraps a live instance for the write path.
func ObjectValue(obj ObjectToSerialize) Value {
	return Value{kind: ValueObject, toSerialize: &obj}
}

// NodeValue wraps a graph node for the read path.
func NodeValue(ref NodeRef) Value {
	return Value{kind: ValueObject, node: ref}
}

func (v Value) Kind() ValueKindEnum { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == ValueUndefined }
func (v Value) IsNull() bool { return v.kind == ValueNull }
func (v Value) IsScalar() bool { return v.kind == ValueScalar }
func (v Value) IsObject() bool { return v.kind == ValueObject }

// IsMissing reports whether the value carries no payload (undefined or null).
func (v Value) IsMissing() bool {
	return v.kind == ValueUndefined || v.kind == ValueNull
}

// ScalarText returns the textual payload; it is empty for non-scalar values.
func (v Value) ScalarText() string { return v.text }

func (v Value) HasNoLineFeeds() bool { return v.hasNoLineFeeds }

// ActualSerializableTypeName is the stamped runtime type of a scalar written through
// an "any" slot; empty otherwise.
func (v Value) ActualSerializableTypeName() string { return v.actualTypeName }

// WithActualSerializableTypeName returns a copy of a scalar value carrying the given
// type name. Non-scalar values are returned unchanged.
func (v Value) WithActualSerializableTypeName(name string) Value {
	if v.kind != ValueScalar {
		return v
	}

	v.actualTypeName = name
	return v
}

// AsNestedObjectToSerialize returns the live instance of a write-path object value.
func (v Value) AsNestedObjectToSerialize() (ObjectToSerialize, bool) {
	if v.kind != ValueObject || v.toSerialize == nil {
		return ObjectToSerialize{}, false
	}

	return *v.toSerialize, true
}

// AsNestedObjectToDeserialize returns the graph node of a read-path object value.
func (v Value) AsNestedObjectToDeserialize() (NodeRef, bool) {
	if v.kind != ValueObject || !v.node.Valid() {
		return NodeRef{}, false
	}

	return v.node, true
}

func (v Value) String() string {
	switch v.kind {
	case ValueScalar:
		if v.actualTypeName != "" {
			return v.actualTypeName + "(" + v.text + ")"
		}
		return v.text
	case ValueObject:
		if v.node.Valid() {
			return "node#" + strconv.Itoa(v.node.id)
		}
		return "object"
	default:
		return v.kind.String()
	}
}
