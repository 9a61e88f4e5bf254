package formatter

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
	"ndef-formatter/utils"
)

type listShapeEnum int

const (
	shapeUnknown  listShapeEnum = iota
	shapeSlice                  // []E: allocated with the exact length, filled in place
	shapeGrowable               // *[]E: appended to
)

// List serializes sequences of E held in a container of type L as list nodes.
// Recognised containers are []E and *[]E; any other L fails with ErrNotSupported.
//
// A list is written untyped (empty type name) when the element type declared by the
// slot equals E, or when E is assignable to the identity-bearing root type of the
// binder. Producer and consumer may then use different container shapes.
type List[L any, E any] struct {
	name       string
	formal     reflect.Type
	elemType   reflect.Type
	elemFormal reflect.Type // slot type the elements are written through
	shape      listShapeEnum

	binder ndef.Binder
	self   *ndef.TypeInfo
	typed  ndef.TypedFormatter[E]
	boxed  ndef.Formatter
}

func NewList[L any, E any](name string) *List[L, E] {
	l := &List[L, E]{
		name:     name,
		formal:   reflect.TypeFor[L](),
		elemType: reflect.TypeFor[E](),
	}
	l.elemFormal = l.elemType

	switch any((*L)(nil)).(type) {
	case *[]E:
		l.shape = shapeSlice
	case **[]E:
		l.shape = shapeGrowable
	}

	return l
}

// NewSlice returns the formatter of []E.
func NewSlice[E any](name string) *List[[]E, E] { return NewList[[]E, E](name) }

// NewGrowable returns the formatter of *[]E.
func NewGrowable[E any](name string) *List[*[]E, E] { return NewList[*[]E, E](name) }

// WithElement binds the element formatter explicitly instead of resolving it from the
// binder during Initialize.
func (l *List[L, E]) WithElement(f ndef.TypedFormatter[E]) *List[L, E] {
	l.typed = f
	return l
}

func (l *List[L, E]) FormalType() reflect.Type     { return l.formal }
func (l *List[L, E]) SerializableTypeName() string { return l.name }
func (l *List[L, E]) ElementType() reflect.Type    { return l.elemType }

func (l *List[L, E]) Initialize(binder ndef.Binder) error {
	l.binder = binder
	l.self = selfInfo(binder, l.Boxed())

	// elements of identity-bearing types are tagged one by one instead of by the list
	if root := binder.IdentityRoot(); root != nil && root != l.elemType && l.elemType.AssignableTo(root) {
		l.elemFormal = root
	}

	if l.typed != nil {
		return nil
	}

	ti, err := binder.LookupTypeInfoByType(l.elemType)
	if err != nil {
		return fmt.Errorf("%s: failed to resolve element formatter: %w", l.name, err)
	}

	if typed, ok := Unbox[E](ti.Formatter); ok {
		l.typed = typed
	} else {
		l.boxed = ti.Formatter
	}

	return nil
}

func (l *List[L, E]) ToNdefValue(formal reflect.Type, v L) (ndef.Value, error) {
	items, err := l.items(v)
	if err != nil {
		return ndef.Value{}, err
	}

	if len(items) == 0 {
		return ndef.Null(), nil
	}

	typeName := l.name
	if l.IsUntyped(formal) {
		typeName = ""
	}

	return ndef.ObjectValue(ndef.ObjectToSerialize{
		Instance:  v,
		Formatter: l.Boxed(),
		TypeName:  typeName,
		Kind:      ndef.ObjectKindList,
	}), nil
}

// IsUntyped reports whether a list written through a slot of type formal omits its
// type name.
func (l *List[L, E]) IsUntyped(formal reflect.Type) bool {
	if elementOf(formal) == l.elemType {
		return true
	}

	if l.binder == nil {
		return false
	}

	root := l.binder.IdentityRoot()
	return root != nil && l.elemType.AssignableTo(root)
}

func (l *List[L, E]) FromNdefValue(formal reflect.Type, v ndef.Value) (L, error) {
	var zero L
	if v.IsMissing() {
		return zero, nil
	}

	ref, err := nodeOf(l.name, v)
	if err != nil {
		return zero, err
	}

	return instanceOf[L](l.binder, l.info(), formal, ref)
}

func (l *List[L, E]) ToNdefElements(obj L, _ []int) ([]ndef.Element, error) {
	items, err := l.items(obj)
	if err != nil {
		return nil, err
	}

	elements := make([]ndef.Element, len(items))
	for i, item := range items {
		value, err := l.toElement(item)
		if err != nil {
			return nil, fmt.Errorf("%s: element %d conversion failed: %w", l.name, i, err)
		}

		elements[i] = ndef.Element{Number: i, Value: value}
	}

	return elements, nil
}

func (l *List[L, E]) FromNdefElements(obj L, elements []ndef.Element) error {
	switch l.shape {
	default:
		return l.notSupported()

	case shapeSlice:
		items := any(obj).([]E)
		for _, el := range elements {
			if !utils.IsInRange(0, el.Number, len(items)-1) {
				return fmt.Errorf("%w: %s: element %d is out of range [0, %d)",
					ndef.ErrInvalidValue, l.name, el.Number, len(items))
			}

			item, err := l.fromElement(el.Value)
			if err != nil {
				return fmt.Errorf("%s: element %d conversion failed: %w", l.name, el.Number, err)
			}

			items[el.Number] = item
		}

	case shapeGrowable:
		items := any(obj).(*[]E)
		for _, el := range elements {
			item, err := l.fromElement(el.Value)
			if err != nil {
				return fmt.Errorf("%s: element %d conversion failed: %w", l.name, el.Number, err)
			}

			*items = append(*items, item)
		}
	}

	return nil
}

// CreateObjectInstance allocates the container for header.Length elements.
func (l *List[L, E]) CreateObjectInstance(_ reflect.Type, header *ndef.ObjectHeader) (L, error) {
	var zero L

	switch l.shape {
	case shapeSlice:
		return any(make([]E, header.Length)).(L), nil
	case shapeGrowable:
		items := make([]E, 0, header.Length)
		return any(&items).(L), nil
	default:
		return zero, l.notSupported()
	}
}

func (l *List[L, E]) Boxed() ndef.Formatter { return Box[L](l) }

func (l *List[L, E]) info() *ndef.TypeInfo {
	if l.self != nil {
		return l.self
	}

	return ndef.NewTypeInfo(l.Boxed())
}

func (l *List[L, E]) items(v L) ([]E, error) {
	switch items := any(v).(type) {
	case []E:
		return items, nil
	case *[]E:
		if items == nil {
			return nil, nil
		}
		return *items, nil
	default:
		return nil, l.notSupported()
	}
}

func (l *List[L, E]) toElement(item E) (ndef.Value, error) {
	if l.typed != nil {
		return l.typed.ToNdefValue(l.elemFormal, item)
	}

	if l.boxed == nil {
		return ndef.Value{}, fmt.Errorf("%w: %s has no element formatter", ndef.ErrUnknownType, l.name)
	}

	return l.boxed.ToNdefValue(l.elemFormal, any(item))
}

func (l *List[L, E]) fromElement(v ndef.Value) (E, error) {
	var zero E

	if l.typed != nil {
		return l.typed.FromNdefValue(l.elemType, v)
	}

	if l.boxed == nil {
		return zero, fmt.Errorf("%w: %s has no element formatter", ndef.ErrUnknownType, l.name)
	}

	x, err := l.boxed.FromNdefValue(l.elemType, v)
	if err != nil || x == nil {
		return zero, err
	}

	item, ok := x.(E)
	if !ok {
		return zero, fmt.Errorf("%w: %s cannot hold an element of type %T", ndef.ErrInvalidValue, l.name, x)
	}

	return item, nil
}

func (l *List[L, E]) notSupported() error {
	return fmt.Errorf("%w: %s is not a recognised list container", ndef.ErrNotSupported, l.formal)
}
