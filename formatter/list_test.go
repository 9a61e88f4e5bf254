package formatter_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndef-formatter/formatter"
	"ndef-formatter/ndef"
	"ndef-formatter/registry"
)

func TestList_TypedOrUntyped(t *testing.T) {
	r := newRegistry(t, nil)

	f := formatter.NewSlice[int32]("ints")
	require.NoError(t, f.Initialize(r))

	tests := []struct {
		name   string
		formal reflect.Type
		want   string
	}{
		{"same element type", reflect.TypeFor[[]int32](), ""},
		{"growable slot with same element type", reflect.TypeFor[*[]int32](), ""},
		{"array slot with same element type", reflect.TypeFor[[4]int32](), ""},
		{"any slot", ndef.AnyType, "ints"},
		{"other element type", reflect.TypeFor[[]int64](), "ints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.ToNdefValue(tt.formal, []int32{1, 2})
			require.NoError(t, err)

			obj, ok := v.AsNestedObjectToSerialize()
			require.True(t, ok)
			assert.Equal(t, ndef.ObjectKindList, obj.Kind)
			assert.Equal(t, tt.want, obj.TypeName)
		})
	}
}

func TestList_EmptyIsNull(t *testing.T) {
	f := formatter.NewSlice[int32]("ints")

	v, err := f.ToNdefValue(f.FormalType(), []int32{})
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = f.ToNdefValue(f.FormalType(), nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	g := formatter.NewGrowable[int32]("ints")
	v, err = g.ToNdefValue(g.FormalType(), nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestList_Elements(t *testing.T) {
	r := newRegistry(t, nil)

	f := formatter.NewSlice[int32]("ints")
	require.NoError(t, f.Initialize(r))

	elements, err := f.ToNdefElements([]int32{7, -1, 9}, nil)
	require.NoError(t, err)
	require.Len(t, elements, 3)

	for i, want := range []string{"7", "-1", "9"} {
		assert.Equal(t, i, elements[i].Number)
		assert.Equal(t, want, elements[i].Value.ScalarText())
	}
}

// listNode builds a list node holding the given scalar texts.
func listNode(g *ndef.Graph, typeName string, texts ...string) ndef.NodeRef {
	ref := g.Add(ndef.ObjectHeader{TypeName: typeName, Kind: ndef.ObjectKindList})

	elements := make([]ndef.Element, len(texts))
	for i, text := range texts {
		elements[i] = ndef.Element{Number: i, Value: ndef.Text(text)}
	}
	ref.SetElements(elements)

	return ref
}

func TestList_DecodeSlice(t *testing.T) {
	r := newRegistry(t, nil)

	f := formatter.NewSlice[int32]("ints")
	require.NoError(t, f.Initialize(r))

	g := ndef.NewGraph()
	ref := listNode(g, "", "5", "6", "")

	items, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(ref))
	require.NoError(t, err)
	require.Len(t, items, 3, "allocated with the exact length")
	assert.Equal(t, ndef.InstanceCreated, ref.Object().State())

	require.NoError(t, g.Populate())
	assert.Equal(t, []int32{5, 6, formatter.NewInt32().Null()}, items)
	assert.Equal(t, ndef.Populated, ref.Object().State())
}

func TestList_DecodeGrowable(t *testing.T) {
	r := newRegistry(t, nil)

	f := formatter.NewGrowable[string]("strings")
	require.NoError(t, f.Initialize(r))

	g := ndef.NewGraph()
	ref := listNode(g, "", "a", "b")

	items, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(ref))
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, *items)
	assert.Equal(t, 2, cap(*items))

	require.NoError(t, g.Populate())
	assert.Equal(t, []string{"a", "b"}, *items)
}

func TestList_ElementOutOfRange(t *testing.T) {
	r := newRegistry(t, nil)

	f := formatter.NewSlice[int32]("ints")
	require.NoError(t, f.Initialize(r))

	g := ndef.NewGraph()
	ref := g.Add(ndef.ObjectHeader{Kind: ndef.ObjectKindList})
	ref.SetElements([]ndef.Element{
		{Number: 0, Value: ndef.Text("1")},
		{Number: 5, Value: ndef.Text("2")},
	})

	_, err := f.FromNdefValue(f.FormalType(), ndef.NodeValue(ref))
	require.NoError(t, err)

	err = g.Populate()
	require.ErrorIs(t, err, ndef.ErrInvalidValue)
}

func TestList_UnrecognisedContainer(t *testing.T) {
	f := formatter.NewList[[2]int32, int32]("pair")

	_, err := f.CreateObjectInstance(f.FormalType(), &ndef.ObjectHeader{Length: 2})
	require.ErrorIs(t, err, ndef.ErrNotSupported)

	_, err = f.ToNdefValue(f.FormalType(), [2]int32{1, 2})
	require.ErrorIs(t, err, ndef.ErrNotSupported)

	err = f.FromNdefElements([2]int32{}, nil)
	require.ErrorIs(t, err, ndef.ErrNotSupported)
}

func TestList_IdentityRoot(t *testing.T) {
	r := newRegistry(t, nil, registry.WithIdentityRoot(reflect.TypeFor[entity]()))

	ti, err := r.LookupTypeInfoByType(reflect.TypeFor[[]*person]())
	require.NoError(t, err)

	people := []*person{{Name: "ann"}, {Name: "bob"}}

	v, err := ti.Formatter.ToNdefValue(ndef.AnyType, people)
	require.NoError(t, err)

	obj, ok := v.AsNestedObjectToSerialize()
	require.True(t, ok)
	assert.Empty(t, obj.TypeName, "lists of identity-bearing elements are untyped")

	elements, err := obj.Formatter.ToNdefElements(obj.Instance, nil)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	for _, el := range elements {
		item, ok := el.Value.AsNestedObjectToSerialize()
		require.True(t, ok)
		assert.Equal(t, "person", item.TypeName, "elements carry their own type")
	}

	plain := newRegistry(t, nil)
	ti, err = plain.LookupTypeInfoByType(reflect.TypeFor[[]*person]())
	require.NoError(t, err)

	v, err = ti.Formatter.ToNdefValue(ndef.AnyType, people)
	require.NoError(t, err)

	obj, ok = v.AsNestedObjectToSerialize()
	require.True(t, ok)
	assert.Equal(t, "[]person", obj.TypeName)
}
