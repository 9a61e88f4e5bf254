// Package walk moves values between live Go object graphs and ndef arenas in memory.
//
// Encode lowers a value into a Document: nested objects become graph nodes and an
// instance reachable through several paths becomes a single node. Decode resolves the
// root through the formatter of the requested type and populates the graph, so shared
// and cyclic references come back as shared and cyclic references.
package walk

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
)

// Document is an encoded value: the root value and the arena of its object nodes.
// Decoding works on a copy of the arena, so a document may be decoded many times and
// from several goroutines.
type Document struct {
	Root  ndef.Value
	Graph *ndef.Graph
}

// Node returns the node the root points to, nil for a scalar or missing root.
func (d Document) Node() *ndef.Object {
	ref, ok := d.Root.AsNestedObjectToDeserialize()
	if !ok {
		return nil
	}

	return ref.Object()
}

// identity is the address-based key of a live instance.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

func identityOf(instance any) (identity, bool) {
	rv := reflect.ValueOf(instance)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	default:
		return identity{}, false
	}
}

type encoder struct {
	graph *ndef.Graph
	seen  map[identity]ndef.NodeRef
}

// Encode lowers v, held by a slot of type formal, through the formatter the binder
// assigns to formal.
func Encode(binder ndef.Binder, formal reflect.Type, v any) (Document, error) {
	ti, err := binder.LookupTypeInfoByType(formal)
	if err != nil {
		return Document{}, err
	}

	value, err := ti.Formatter.ToNdefValue(formal, v)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode %s: %w", formal, err)
	}

	return EncodeValue(value)
}

// EncodeOf is Encode for a slot of static type T.
func EncodeOf[T any](binder ndef.Binder, v T) (Document, error) {
	return Encode(binder, reflect.TypeFor[T](), any(v))
}

// EncodeValue lowers an already converted root value.
func EncodeValue(root ndef.Value) (Document, error) {
	e := &encoder{
		graph: ndef.NewGraph(),
		seen:  make(map[identity]ndef.NodeRef),
	}

	lowered, err := e.lower(root)
	if err != nil {
		return Document{}, err
	}

	return Document{Root: lowered, Graph: e.graph}, nil
}

func (e *encoder) lower(v ndef.Value) (ndef.Value, error) {
	obj, ok := v.AsNestedObjectToSerialize()
	if !ok {
		return v, nil
	}

	key, shareable := identityOf(obj.Instance)
	if shareable {
		if ref, exists := e.seen[key]; exists {
			// a later slot may need the explicit name the first one could omit
			if header := &ref.Object().Header; header.TypeName == "" {
				header.TypeName = obj.TypeName
			}
			return ndef.NodeValue(ref), nil
		}
	}

	ref := e.graph.Add(ndef.ObjectHeader{TypeName: obj.TypeName, Kind: obj.Kind})
	if shareable {
		e.seen[key] = ref
	}

	elements, err := obj.Formatter.ToNdefElements(obj.Instance, nil)
	if err != nil {
		return ndef.Value{}, fmt.Errorf("node #%d: %w", ref.ID(), err)
	}

	for i := range elements {
		if elements[i].Value, err = e.lower(elements[i].Value); err != nil {
			return ndef.Value{}, err
		}
	}

	ref.SetElements(elements)

	return ndef.NodeValue(ref), nil
}

// Decode materialises the document as a value of type formal.
func Decode(binder ndef.Binder, formal reflect.Type, doc Document) (any, error) {
	ti, err := binder.LookupTypeInfoByType(formal)
	if err != nil {
		return nil, err
	}

	root := doc.Root
	var graph *ndef.Graph
	if doc.Graph != nil {
		graph = doc.Graph.Clone()
		root = graph.Rebind(root)
	}

	x, err := ti.Formatter.FromNdefValue(formal, root)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", formal, err)
	}

	if graph != nil {
		if err := graph.Populate(); err != nil {
			return nil, err
		}
	}

	return x, nil
}

// DecodeAs is Decode for a slot of static type T.
func DecodeAs[T any](binder ndef.Binder, doc Document) (T, error) {
	var zero T

	x, err := Decode(binder, reflect.TypeFor[T](), doc)
	if err != nil || x == nil {
		return zero, err
	}

	v, ok := x.(T)
	if !ok {
		return zero, fmt.Errorf("%w: decoded %T, expected %s", ndef.ErrInvalidValue, x, reflect.TypeFor[T]())
	}

	return v, nil
}

// RoundTrip encodes v and decodes it back as T.
func RoundTrip[T any](binder ndef.Binder, v T) (T, error) {
	doc, err := EncodeOf(binder, v)
	if err != nil {
		var zero T
		return zero, err
	}

	return DecodeAs[T](binder, doc)
}
