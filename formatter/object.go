package formatter

import (
	"fmt"
	"reflect"

	"ndef-formatter/ndef"
)

// Field describes one numbered field of an object type T.
// Fields are built with FieldOf or FieldWith.
type Field[T any] interface {
	Number() int
	Name() string
	FormalType() reflect.Type

	bind(binder ndef.Binder) error
	write(obj T) (ndef.Value, error)
	read(obj T, v ndef.Value) error
}

type field[T, F any] struct {
	number int
	name   string
	formal reflect.Type
	get    func(T) F
	set    func(T, F)

	typed ndef.TypedFormatter[F] // static dispatch
	boxed ndef.Formatter         // dynamic dispatch
}

// FieldOf declares a field whose formatter is resolved from the binder by type F.
// When the binder holds a boxed formatter of F the field calls it statically.
func FieldOf[T, F any](number int, name string, get func(T) F, set func(T, F)) Field[T] {
	return &field[T, F]{
		number: number,
		name:   name,
		formal: reflect.TypeFor[F](),
		get:    get,
		set:    set,
	}
}

// FieldWith declares a field served by an explicit formatter, e.g. NewChar for a rune
// or NewDateTime for a time.Time that must be normalised to UTC.
func FieldWith[T, F any](number int, name string, f ndef.TypedFormatter[F], get func(T) F, set func(T, F)) Field[T] {
	return &field[T, F]{
		number: number,
		name:   name,
		formal: reflect.TypeFor[F](),
		get:    get,
		set:    set,
		typed:  f,
	}
}

func (f *field[T, F]) Number() int              { return f.number }
func (f *field[T, F]) Name() string             { return f.name }
func (f *field[T, F]) FormalType() reflect.Type { return f.formal }

func (f *field[T, F]) bind(binder ndef.Binder) error {
	if f.typed != nil {
		return nil
	}

	ti, err := binder.LookupTypeInfoByType(f.formal)
	if err != nil {
		return err
	}

	if typed, ok := Unbox[F](ti.Formatter); ok {
		f.typed = typed
	} else {
		f.boxed = ti.Formatter
	}

	return nil
}

func (f *field[T, F]) write(obj T) (ndef.Value, error) {
	if f.typed != nil {
		return f.typed.ToNdefValue(f.formal, f.get(obj))
	}

	if f.boxed == nil {
		return ndef.Value{}, f.unbound()
	}

	return f.boxed.ToNdefValue(f.formal, any(f.get(obj)))
}

func (f *field[T, F]) read(obj T, v ndef.Value) error {
	if f.typed != nil {
		x, err := f.typed.FromNdefValue(f.formal, v)
		if err != nil {
			return err
		}

		f.set(obj, x)
		return nil
	}

	if f.boxed == nil {
		return f.unbound()
	}

	x, err := f.boxed.FromNdefValue(f.formal, v)
	if err != nil {
		return err
	}

	var value F
	if x != nil {
		var ok bool
		if value, ok = x.(F); !ok {
			return fmt.Errorf("%w: field %s cannot hold a value of type %T", ndef.ErrInvalidValue, f.name, x)
		}
	}

	f.set(obj, value)
	return nil
}

func (f *field[T, F]) unbound() error {
	return fmt.Errorf("%w: field %s has no formatter", ndef.ErrUnknownType, f.name)
}

// Object serializes instances of T (a pointer type) as object nodes whose elements are
// the numbered fields. Instances are created by the factory, once per node, before any
// field is populated, which keeps cyclic graphs identity-stable.
type Object[T any] struct {
	name     string
	formal   reflect.Type
	factory  func() T
	fields   []Field[T]
	byNumber map[int]Field[T]

	binder ndef.Binder
	self   *ndef.TypeInfo
}

func NewObject[T any](name string, factory func() T, fields ...Field[T]) *Object[T] {
	byNumber := make(map[int]Field[T], len(fields))
	for _, f := range fields {
		byNumber[f.Number()] = f
	}

	return &Object[T]{
		name:     name,
		formal:   reflect.TypeFor[T](),
		factory:  factory,
		fields:   fields,
		byNumber: byNumber,
	}
}

func (o *Object[T]) FormalType() reflect.Type     { return o.formal }
func (o *Object[T]) SerializableTypeName() string { return o.name }
func (o *Object[T]) Fields() []Field[T]           { return o.fields }

func (o *Object[T]) Initialize(binder ndef.Binder) error {
	o.binder = binder
	o.self = selfInfo(binder, o.Boxed())
	return nil
}

// Configure binds the field formatters. It runs after every formatter is initialized,
// so fields may refer to any registered type, including T itself.
func (o *Object[T]) Configure(binder ndef.Binder) error {
	for _, f := range o.fields {
		if err := f.bind(binder); err != nil {
			return fmt.Errorf("%s: failed to bind field %s: %w", o.name, f.Name(), err)
		}
	}

	return nil
}

// ToNdefValue writes the explicit type name only when the slot is declared with
// another type than T.
func (o *Object[T]) ToNdefValue(formal reflect.Type, v T) (ndef.Value, error) {
	if isNil(v) {
		return ndef.Null(), nil
	}

	typeName := ""
	if formal != o.formal {
		typeName = o.name
	}

	return ndef.ObjectValue(ndef.ObjectToSerialize{
		Instance:  v,
		Formatter: o.Boxed(),
		TypeName:  typeName,
		Kind:      ndef.ObjectKindObject,
	}), nil
}

func (o *Object[T]) FromNdefValue(formal reflect.Type, v ndef.Value) (T, error) {
	var zero T
	if v.IsMissing() {
		return zero, nil
	}

	ref, err := nodeOf(o.name, v)
	if err != nil {
		return zero, err
	}

	return instanceOf[T](o.binder, o.info(), formal, ref)
}

// ToNdefElements writes the requested fields in the given order, every field in
// declaration order when numbers is nil.
func (o *Object[T]) ToNdefElements(obj T, numbers []int) ([]ndef.Element, error) {
	fields := o.fields
	if numbers != nil {
		fields = make([]Field[T], 0, len(numbers))
		for _, n := range numbers {
			f, ok := o.byNumber[n]
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field %d", ndef.ErrInvalidValue, o.name, n)
			}
			fields = append(fields, f)
		}
	}

	elements := make([]ndef.Element, 0, len(fields))
	for _, f := range fields {
		value, err := f.write(obj)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", o.name, f.Name(), err)
		}

		elements = append(elements, ndef.Element{Number: f.Number(), Value: value})
	}

	return elements, nil
}

// FromNdefElements populates obj. Undefined elements leave the field untouched and
// unknown field numbers are skipped, so older readers accept newer writers.
func (o *Object[T]) FromNdefElements(obj T, elements []ndef.Element) error {
	for _, el := range elements {
		if el.Value.IsUndefined() {
			continue
		}

		f, ok := o.byNumber[el.Number]
		if !ok {
			continue
		}

		if err := f.read(obj, el.Value); err != nil {
			return fmt.Errorf("%s.%s: %w", o.name, f.Name(), err)
		}
	}

	return nil
}

func (o *Object[T]) CreateObjectInstance(reflect.Type, *ndef.ObjectHeader) (T, error) {
	if o.factory == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s has no factory", ndef.ErrNotSupported, o.name)
	}

	return o.factory(), nil
}

func (o *Object[T]) Boxed() ndef.Formatter { return Box[T](o) }

func (o *Object[T]) info() *ndef.TypeInfo {
	if o.self != nil {
		return o.self
	}

	return ndef.NewTypeInfo(o.Boxed())
}
