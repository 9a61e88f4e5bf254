// Package registry is the reference type binder: a registration table mapping wire
// names and native types to formatters, sealed once before use.
//
// Lookups are plain map accesses under a read lock and are safe for concurrent use.
// Registration, aliasing and sealing happen at startup.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"ndef-formatter/formatter"
	"ndef-formatter/ndef"
)

var (
	ErrSealed        = errors.New("registry: already sealed")
	ErrNotSealed     = errors.New("registry: not sealed")
	ErrDuplicateName = errors.New("registry: duplicate type name")
	ErrUnknownRoot   = errors.New("registry: unknown identity root")
)

type ListShapeEnum int

const (
	ListShapeSlice    ListShapeEnum = iota // []E
	ListShapeGrowable                      // *[]E
)

func (s ListShapeEnum) String() string {
	if s == ListShapeGrowable {
		return "growable"
	}

	return "slice"
}

// ParseListShape is the inverse of ListShapeEnum.String.
func ParseListShape(s string) (ListShapeEnum, error) {
	switch s {
	case "slice", "":
		return ListShapeSlice, nil
	case "growable":
		return ListShapeGrowable, nil
	default:
		return 0, fmt.Errorf("registry: unknown list shape %q", s)
	}
}

type Registry struct {
	mu     sync.RWMutex
	infos  []*ndef.TypeInfo
	byName map[string]*ndef.TypeInfo
	byType map[reflect.Type]*ndef.TypeInfo
	roots  map[string]reflect.Type

	identityRoot reflect.Type
	listShape    ListShapeEnum
	sealed       bool

	logger zerolog.Logger
}

type Option func(*Registry)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithIdentityRoot designates t as the identity-bearing root type: lists of elements
// assignable to t are written untyped.
func WithIdentityRoot(t reflect.Type) Option {
	return func(r *Registry) { r.identityRoot = t }
}

func WithPreferredList(shape ListShapeEnum) Option {
	return func(r *Registry) { r.listShape = shape }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]*ndef.TypeInfo),
		byType: make(map[reflect.Type]*ndef.TypeInfo),
		roots:  make(map[string]reflect.Type),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewDefault returns a registry holding every builtin formatter, not sealed yet so that
// application formatters can still be added.
func NewDefault(opts ...Option) (*Registry, error) {
	r := New(opts...)
	for _, f := range formatter.Builtins() {
		if _, err := r.Register(f); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a boxed formatter. Its name must be unique; its native type is bound
// only if no earlier formatter claimed it.
func (r *Registry) Register(f ndef.Formatter) (*ndef.TypeInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil, ErrSealed
	}

	ti := ndef.NewTypeInfo(f)
	if ti.Name != "" {
		if _, exists := r.byName[ti.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, ti.Name)
		}
		r.byName[ti.Name] = ti
	}

	claimed := false
	if _, exists := r.byType[ti.Type]; !exists {
		r.byType[ti.Type] = ti
		claimed = true
	}

	r.infos = append(r.infos, ti)
	r.logger.Debug().Str("name", ti.Name).Stringer("type", ti.Type).Bool("claimed", claimed).Msg("registered formatter")

	return ti, nil
}

// Register adds a typed formatter through its boxed view.
func Register[T any](r *Registry, f ndef.TypedFormatter[T]) (*ndef.TypeInfo, error) {
	return r.Register(f.Boxed())
}

// MustRegister is like Register but panics on error. Meant for package init tables.
func MustRegister[T any](r *Registry, f ndef.TypedFormatter[T]) *ndef.TypeInfo {
	ti, err := Register(r, f)
	if err != nil {
		panic(err)
	}

	return ti
}

// Alias makes the type registered under name reachable under alias too.
func (r *Registry) Alias(alias, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	ti, ok := r.byName[name]
	if !ok {
		return ndef.UnknownNameError(name)
	}

	if _, exists := r.byName[alias]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, alias)
	}

	r.byName[alias] = ti
	r.logger.Debug().Str("alias", alias).Str("name", name).Msg("bound alias")

	return nil
}

// DeclareRoot names a type that configuration may designate as the identity root.
func (r *Registry) DeclareRoot(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots[name] = t
}

// SetIdentityRoot designates a declared root (or a registered type) by name.
func (r *Registry) SetIdentityRoot(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	if t, ok := r.roots[name]; ok {
		r.identityRoot = t
		return nil
	}

	if ti, ok := r.byName[name]; ok {
		r.identityRoot = ti.Type
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownRoot, name)
}

func (r *Registry) SetPreferredList(shape ListShapeEnum) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	r.listShape = shape
	return nil
}

// Seal runs Initialize on every formatter, then Configure on every formatter, and
// freezes the registry. Lookups used by the hooks see the complete tables.
func (r *Registry) Seal() error {
	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		return ErrSealed
	}
	infos := append([]*ndef.TypeInfo(nil), r.infos...)
	r.mu.Unlock()

	for _, ti := range infos {
		if i, ok := ti.Formatter.(ndef.Initializer); ok {
			if err := i.Initialize(r); err != nil {
				return fmt.Errorf("registry: failed to initialize %s: %w", ti, err)
			}
		}
	}

	for _, ti := range infos {
		if c, ok := ti.Formatter.(ndef.Configurer); ok {
			if err := c.Configure(r); err != nil {
				return fmt.Errorf("registry: failed to configure %s: %w", ti, err)
			}
		}
	}

	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()

	r.logger.Info().Int("types", len(infos)).Stringer("preferred_list", r.listShape).Msg("registry sealed")

	return nil
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sealed
}

// Names returns every registered name and alias, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Infos returns the registered type information in registration order.
func (r *Registry) Infos() []*ndef.TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*ndef.TypeInfo(nil), r.infos...)
}

func (r *Registry) LookupTypeInfo(value any) (*ndef.TypeInfo, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil value has no runtime type", ndef.ErrUnknownType)
	}

	return r.LookupTypeInfoByType(reflect.TypeOf(value))
}

func (r *Registry) LookupTypeInfoByName(name string) (*ndef.TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ti, ok := r.byName[name]
	if !ok {
		return nil, ndef.UnknownNameError(name)
	}

	return ti, nil
}

// LookupTypeInfoByType resolves t; unregistered interface types fall back to the any
// formatter.
func (r *Registry) LookupTypeInfoByType(t reflect.Type) (*ndef.TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ti, ok := r.byType[t]; ok {
		return ti, nil
	}

	if formatter.Classify(t) == formatter.FamilyAny {
		if ti, ok := r.byType[ndef.AnyType]; ok {
			return ti, nil
		}
	}

	return nil, ndef.UnknownTypeError(t)
}

func (r *Registry) PreferredListType(elem reflect.Type) reflect.Type {
	if elem == nil {
		elem = ndef.AnyType
	}

	r.mu.RLock()
	shape := r.listShape
	r.mu.RUnlock()

	if shape == ListShapeGrowable {
		return reflect.PointerTo(reflect.SliceOf(elem))
	}

	return reflect.SliceOf(elem)
}

func (r *Registry) IdentityRoot() reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.identityRoot
}

// PreferredListShape returns the configured container shape of untyped lists.
func (r *Registry) PreferredListShape() ListShapeEnum {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listShape
}

// HasRoot reports whether name is a declared root or a registered type.
func (r *Registry) HasRoot(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, declared := r.roots[name]
	_, registered := r.byName[name]

	return declared || registered
}

var _ ndef.Binder = (*Registry)(nil)
