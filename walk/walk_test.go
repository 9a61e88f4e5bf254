package walk_test

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndef-formatter/formatter"
	"ndef-formatter/ndef"
	"ndef-formatter/registry"
	"ndef-formatter/walk"
)

type entity interface {
	Key() string
}

type account struct {
	ID      uuid.UUID
	Owner   string
	Parent  *account
	Members []*account
	Labels  []string
	Extra   any
}

func (a *account) Key() string { return a.ID.String() }

func newRegistry(t *testing.T, created *atomic.Int64, opts ...registry.Option) *registry.Registry {
	t.Helper()

	r, err := registry.NewDefault(opts...)
	require.NoError(t, err)

	registry.MustRegister[*account](r, formatter.NewObject("account",
		func() *account {
			if created != nil {
				created.Add(1)
			}
			return &account{}
		},
		formatter.FieldOf(1, "id",
			func(a *account) uuid.UUID { return a.ID },
			func(a *account, v uuid.UUID) { a.ID = v }),
		formatter.FieldOf(2, "owner",
			func(a *account) string { return a.Owner },
			func(a *account, v string) { a.Owner = v }),
		formatter.FieldOf(3, "parent",
			func(a *account) *account { return a.Parent },
			func(a *account, v *account) { a.Parent = v }),
		formatter.FieldOf(4, "members",
			func(a *account) []*account { return a.Members },
			func(a *account, v []*account) { a.Members = v }),
		formatter.FieldOf(5, "labels",
			func(a *account) []string { return a.Labels },
			func(a *account, v []string) { a.Labels = v }),
		formatter.FieldOf(6, "extra",
			func(a *account) any { return a.Extra },
			func(a *account, v any) { a.Extra = v }),
	))
	registry.MustRegister[[]*account](r, formatter.NewSlice[*account]("[]account"))

	require.NoError(t, r.Seal())

	return r
}

// family returns a root with two members pointing back at it; the first member also
// holds the second one in its any slot.
func family() *account {
	root := &account{ID: uuid.New(), Owner: "root", Labels: []string{"a", "b"}}
	first := &account{ID: uuid.New(), Owner: "first", Parent: root}
	second := &account{ID: uuid.New(), Owner: "second", Parent: root}
	first.Extra = second
	root.Members = []*account{first, second}

	return root
}

func Example() {
	r, _ := registry.NewDefault()
	_ = r.Seal()

	doc, _ := walk.EncodeOf[any](r, []string{"x", "y"})
	fmt.Println(doc.Graph.Len(), doc.Node().Header.TypeName, doc.Node().Header.Length)

	back, _ := walk.DecodeAs[any](r, doc)
	fmt.Println(back)

	// Output:
	// 1 []string 2
	// [x y]
}

func TestRoundTrip_SharedAndCyclicReferences(t *testing.T) {
	var created atomic.Int64
	r := newRegistry(t, &created)

	in := family()
	doc, err := walk.EncodeOf(r, in)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Graph.Len(), "three accounts, the members list and the labels list")

	out, err := walk.DecodeAs[*account](r, doc)
	require.NoError(t, err)
	assert.EqualValues(t, 3, created.Load(), "one factory call per account")

	require.Len(t, out.Members, 2)
	first, second := out.Members[0], out.Members[1]

	assert.Same(t, out, first.Parent)
	assert.Same(t, out, second.Parent)
	assert.Same(t, second, first.Extra)

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Labels, out.Labels)
	assert.Equal(t, "second", first.Extra.(*account).Owner)
}

func TestRoundTrip_StructuralEquality(t *testing.T) {
	r := newRegistry(t, nil)

	in := &account{
		ID:     uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Owner:  "leaf",
		Labels: []string{"one"},
		Extra:  int64(-3),
	}

	out, err := walk.RoundTrip(r, in)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_DocumentIsReusable(t *testing.T) {
	var created atomic.Int64
	r := newRegistry(t, &created)

	doc, err := walk.EncodeOf(r, family())
	require.NoError(t, err)

	a, err := walk.DecodeAs[*account](r, doc)
	require.NoError(t, err)
	b, err := walk.DecodeAs[*account](r, doc)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.EqualValues(t, 6, created.Load())
	assert.Equal(t, ndef.Unresolved, doc.Node().State(), "the encoded arena is left untouched")
}

func TestEncode_NamesSharedNodeForDynamicSlot(t *testing.T) {
	r := newRegistry(t, nil)

	// member is reached through the typed list first, then through the any slot
	member := &account{Owner: "member"}
	root := &account{Owner: "root", Members: []*account{member}, Extra: member}

	doc, err := walk.EncodeOf(r, root)
	require.NoError(t, err)

	var named []string
	for id := 0; id < doc.Graph.Len(); id++ {
		if name := doc.Graph.Node(id).Header.TypeName; name != "" {
			named = append(named, name)
		}
	}
	assert.Equal(t, []string{"account"}, named)

	out, err := walk.DecodeAs[*account](r, doc)
	require.NoError(t, err)
	require.Len(t, out.Members, 1)
	assert.Same(t, out.Members[0], out.Extra)
}

func TestEncode_ScalarRoot(t *testing.T) {
	r := newRegistry(t, nil)

	doc, err := walk.EncodeOf[int32](r, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Graph.Len())
	assert.Nil(t, doc.Node())
	assert.Equal(t, "12", doc.Root.ScalarText())

	x, err := walk.DecodeAs[int32](r, doc)
	require.NoError(t, err)
	assert.Equal(t, int32(12), x)

	doc, err = walk.EncodeOf[any](r, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, doc.Root.IsNull())

	y, err := walk.DecodeAs[any](r, doc)
	require.NoError(t, err)
	assert.Nil(t, y)
}

func TestEncode_Errors(t *testing.T) {
	r := newRegistry(t, nil)

	_, err := walk.Encode(r, reflect.TypeFor[struct{}](), struct{}{})
	require.ErrorIs(t, err, ndef.ErrUnknownType)

	_, err = walk.EncodeOf(r, &account{Extra: struct{ X int }{}})
	require.ErrorIs(t, err, ndef.ErrUnknownType)

	doc, err := walk.EncodeOf[any](r, "text")
	require.NoError(t, err)
	_, err = walk.DecodeAs[*account](r, doc)
	require.ErrorIs(t, err, ndef.ErrInvalidValue)
}

func TestRoundTrip_IdentityRootList(t *testing.T) {
	r := newRegistry(t, nil, registry.WithIdentityRoot(reflect.TypeFor[entity]()))

	in := []*account{{Owner: "a"}, {Owner: "b"}}
	doc, err := walk.EncodeOf[any](r, in)
	require.NoError(t, err)
	assert.True(t, doc.Node().Header.IsUntypedList())

	out, err := walk.DecodeAs[any](r, doc)
	require.NoError(t, err)

	items, ok := out.([]any)
	require.True(t, ok, "untyped lists come back in the preferred container, got %T", out)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].(*account).Owner)
}

func TestDecodeAll(t *testing.T) {
	var created atomic.Int64
	r := newRegistry(t, &created)

	formal := reflect.TypeFor[*account]()

	jobs := make([]walk.Job, 16)
	for i := range jobs {
		doc, err := walk.EncodeOf(r, &account{Owner: fmt.Sprintf("owner-%d", i)})
		require.NoError(t, err)
		jobs[i] = walk.Job{Formal: formal, Doc: doc}
	}

	results, err := walk.DecodeAll(context.Background(), r, jobs, 4)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, x := range results {
		assert.Equal(t, fmt.Sprintf("owner-%d", i), x.(*account).Owner)
	}
	assert.EqualValues(t, len(jobs), created.Load())
}

func TestDecodeAll_Failure(t *testing.T) {
	r := newRegistry(t, nil)

	good, err := walk.EncodeOf(r, &account{Owner: "ok"})
	require.NoError(t, err)

	bad, err := walk.EncodeValue(ndef.Text("not an account"))
	require.NoError(t, err)

	formal := reflect.TypeFor[*account]()
	_, err = walk.DecodeAll(context.Background(), r, []walk.Job{
		{Formal: formal, Doc: good},
		{Formal: formal, Doc: bad},
	}, 0)
	require.ErrorIs(t, err, ndef.ErrInvalidValue)
	assert.ErrorContains(t, err, "job 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = walk.DecodeAll(ctx, r, []walk.Job{{Formal: formal, Doc: good}}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

type reading struct {
	Value *int32
	At    *time.Time
	Every *time.Duration
}

func TestRoundTrip_NullableFields(t *testing.T) {
	r, err := registry.NewDefault()
	require.NoError(t, err)

	registry.MustRegister[*reading](r, formatter.NewObject("reading",
		func() *reading { return &reading{} },
		formatter.FieldOf(1, "value",
			func(x *reading) *int32 { return x.Value },
			func(x *reading, v *int32) { x.Value = v }),
		formatter.FieldOf(2, "at",
			func(x *reading) *time.Time { return x.At },
			func(x *reading, v *time.Time) { x.At = v }),
		formatter.FieldOf(3, "every",
			func(x *reading) *time.Duration { return x.Every },
			func(x *reading, v *time.Duration) { x.Every = v }),
	))
	require.NoError(t, r.Seal())

	value := int32(math.MinInt32)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	back, err := walk.RoundTrip(r, &reading{Value: &value, At: &at})
	require.NoError(t, err)

	require.NotNil(t, back.Value)
	assert.Equal(t, value, *back.Value, "the sentinel is an ordinary value behind a pointer")
	require.NotNil(t, back.At)
	assert.True(t, at.Equal(*back.At))
	assert.Nil(t, back.Every)
}
