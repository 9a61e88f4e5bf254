package formatter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ndef-formatter/formatter"
	"ndef-formatter/registry"
)

type entity interface {
	ID() string
}

type person struct {
	Name    string
	Age     int32
	Friends []*person
	Best    *person
	Extra   any
	Tags    []string
	Initial rune
}

func (p *person) ID() string { return p.Name }

// newPersonFormatter counts factory calls in calls, if not nil.
func newPersonFormatter(calls *int) *formatter.Object[*person] {
	return formatter.NewObject("person",
		func() *person {
			if calls != nil {
				*calls++
			}
			return &person{}
		},
		formatter.FieldOf(1, "name",
			func(p *person) string { return p.Name },
			func(p *person, v string) { p.Name = v }),
		formatter.FieldOf(2, "age",
			func(p *person) int32 { return p.Age },
			func(p *person, v int32) { p.Age = v }),
		formatter.FieldOf(3, "friends",
			func(p *person) []*person { return p.Friends },
			func(p *person, v []*person) { p.Friends = v }),
		formatter.FieldOf(4, "best",
			func(p *person) *person { return p.Best },
			func(p *person, v *person) { p.Best = v }),
		formatter.FieldOf(5, "extra",
			func(p *person) any { return p.Extra },
			func(p *person, v any) { p.Extra = v }),
		formatter.FieldOf(6, "tags",
			func(p *person) []string { return p.Tags },
			func(p *person, v []string) { p.Tags = v }),
		formatter.FieldWith[*person, rune](7, "initial", formatter.NewChar(),
			func(p *person) rune { return p.Initial },
			func(p *person, v rune) { p.Initial = v }),
	)
}

// newRegistry returns a sealed default registry knowing person and []*person.
func newRegistry(t *testing.T, calls *int, opts ...registry.Option) *registry.Registry {
	t.Helper()

	r, err := registry.NewDefault(opts...)
	require.NoError(t, err)

	registry.MustRegister[*person](r, newPersonFormatter(calls))
	registry.MustRegister[[]*person](r, formatter.NewSlice[*person]("[]person"))

	require.NoError(t, r.Seal())

	return r
}
