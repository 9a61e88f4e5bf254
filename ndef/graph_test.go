package ndef_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndef-formatter/ndef"
)

type cell struct {
	name string
	next *cell
}

// cells is a minimal object formatter: element 0 is the name, element 1 the next cell.
type cells struct {
	self    *ndef.TypeInfo
	created int
	fail    bool
}

func newCells() *cells {
	c := &cells{}
	c.self = ndef.NewTypeInfo(c)
	return c
}

func (c *cells) FormalType() reflect.Type     { return reflect.TypeFor[*cell]() }
func (c *cells) SerializableTypeName() string { return "cell" }

func (c *cells) ToNdefValue(reflect.Type, any) (ndef.Value, error) {
	return ndef.Value{}, errors.New("write path is not used here")
}

func (c *cells) FromNdefValue(formal reflect.Type, v ndef.Value) (any, error) {
	ref, ok := v.AsNestedObjectToDeserialize()
	if !ok {
		return nil, nil
	}

	return ref.Instance(formal, c.self)
}

func (c *cells) ToNdefElements(any, []int) ([]ndef.Element, error) {
	return nil, errors.New("write path is not used here")
}

func (c *cells) FromNdefElements(obj any, elements []ndef.Element) error {
	if c.fail {
		return errors.New("broken cell")
	}

	x := obj.(*cell)
	for _, el := range elements {
		switch el.Number {
		case 0:
			x.name = el.Value.ScalarText()
		case 1:
			next, err := c.FromNdefValue(c.FormalType(), el.Value)
			if err != nil {
				return err
			}
			x.next, _ = next.(*cell)
		}
	}

	return nil
}

func (c *cells) CreateObjectInstance(reflect.Type, *ndef.ObjectHeader) (any, error) {
	c.created++
	return &cell{}, nil
}

// ring builds n cells, each pointing at the next one and the last one at the first.
func ring(n int) (*ndef.Graph, []ndef.NodeRef) {
	g := ndef.NewGraph()

	refs := make([]ndef.NodeRef, n)
	for i := range refs {
		refs[i] = g.Add(ndef.ObjectHeader{Kind: ndef.ObjectKindObject})
	}

	for i, ref := range refs {
		ref.SetElements([]ndef.Element{
			{Number: 0, Value: ndef.Text(fmt.Sprint("c", i))},
			{Number: 1, Value: ndef.NodeValue(refs[(i+1)%n])},
		})
	}

	return g, refs
}

func TestGraph_Ring(t *testing.T) {
	f := newCells()
	g, refs := ring(3)

	x, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(refs[0]))
	require.NoError(t, err)
	y, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(refs[0]))
	require.NoError(t, err)
	assert.Same(t, x, y)
	assert.Equal(t, 1, f.created)
	assert.Equal(t, 1, g.Pending())

	require.NoError(t, g.Populate())
	assert.Equal(t, 3, f.created, "one instance per node")
	assert.Equal(t, 0, g.Pending())

	first := x.(*cell)
	assert.Equal(t, "c0", first.name)
	assert.Equal(t, "c1", first.next.name)
	assert.Equal(t, "c2", first.next.next.name)
	assert.Same(t, first, first.next.next.next)

	for _, ref := range refs {
		assert.Equal(t, ndef.Populated, ref.Object().State())
	}
}

func TestGraph_PopulateFailure(t *testing.T) {
	f := newCells()
	f.fail = true
	g, refs := ring(2)

	_, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(refs[1]))
	require.NoError(t, err)

	err = g.Populate()
	require.EqualError(t, err, "failed to populate node #1 (cell): broken cell")
	assert.Equal(t, ndef.InstanceCreated, refs[1].Object().State())
}

func TestGraph_InstanceWithoutType(t *testing.T) {
	g := ndef.NewGraph()
	ref := g.Add(ndef.ObjectHeader{Kind: ndef.ObjectKindObject})

	_, err := ref.Instance(nil, nil)
	require.ErrorIs(t, err, ndef.ErrInvalidValue)
	assert.Equal(t, ndef.Unresolved, ref.Object().State())

	_, ok := ref.Object().DeserializedInstance()
	assert.False(t, ok)
}

func TestGraph_Clone(t *testing.T) {
	f := newCells()
	g, refs := ring(2)

	_, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(refs[0]))
	require.NoError(t, err)
	require.NoError(t, g.Populate())

	c := g.Clone()
	require.Equal(t, g.Len(), c.Len())

	for id := 0; id < c.Len(); id++ {
		node := c.Node(id)
		assert.Equal(t, ndef.Unresolved, node.State())
		assert.Nil(t, node.Header.TypeInfo())

		next, ok := node.Elements[1].Value.AsNestedObjectToDeserialize()
		require.True(t, ok)
		assert.Same(t, c, next.Graph(), "references point into the copy")
	}

	root := c.Rebind(ndef.NodeValue(refs[0]))
	x, err := f.FromNdefValue(f.FormalType(), root)
	require.NoError(t, err)
	require.NoError(t, c.Populate())
	assert.Equal(t, "c1", x.(*cell).next.name)
	assert.Equal(t, 4, f.created)

	assert.Nil(t, g.Node(-1))
	assert.Nil(t, g.Node(2))
}

func TestObjectHeader_ResolveTypeInfo(t *testing.T) {
	f := newCells()
	h := &ndef.ObjectHeader{Kind: ndef.ObjectKindList}
	assert.True(t, h.IsUntypedList())

	calls := 0
	resolve := func(*ndef.ObjectHeader) (*ndef.TypeInfo, error) {
		calls++
		return f.self, nil
	}

	for range 3 {
		ti, err := h.ResolveTypeInfo(resolve)
		require.NoError(t, err)
		assert.Same(t, f.self, ti)
	}
	assert.Equal(t, 1, calls)

	failing := &ndef.ObjectHeader{TypeName: "x"}
	_, err := failing.ResolveTypeInfo(func(*ndef.ObjectHeader) (*ndef.TypeInfo, error) {
		return nil, ndef.UnknownNameError("x")
	})
	require.ErrorIs(t, err, ndef.ErrUnknownType)
	assert.Nil(t, failing.TypeInfo())
}
