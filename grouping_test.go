package fakevalues

import (
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

type mapProvider map[string]any

func (p mapProvider) Get(key string) (any, error) {
	return p[key], nil
}

func newAddressGrouping(t *testing.T) (*Grouping, *Values) {
	t.Helper()
	grouping := NewGrouping()
	address := New(NewPathDescriptor("en", "address.yml", "address"))
	require.NoError(t, grouping.Add(address))
	return grouping, address
}

func TestGroupingHandlesOneValues(t *testing.T) {
	grouping, address := newAddressGrouping(t)

	got, err := grouping.Get("address")
	require.NoError(t, err)
	want, err := address.Get("address")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want, got)
}

func TestGroupingHandlesMultipleValues(t *testing.T) {
	grouping, address := newAddressGrouping(t)
	cat := New(NewPathDescriptor("en", "cat.yml", "creature"))
	require.NoError(t, grouping.Add(cat))

	gotAddress, err := grouping.Get("address")
	require.NoError(t, err)
	wantAddress, _ := address.Get("address")
	require.NotNil(t, gotAddress)
	require.Equal(t, wantAddress, gotAddress)

	gotCreature, err := grouping.Get("creature")
	require.NoError(t, err)
	wantCreature, _ := cat.Get("creature")
	require.NotNil(t, gotCreature)
	require.Equal(t, wantCreature, gotCreature)

	require.Equal(t, []string{"address", "creature"}, grouping.Keys())
	require.Equal(t, 2, grouping.Len())
}

func TestGroupingUsesPathStemWithoutKey(t *testing.T) {
	grouping := NewGrouping()
	require.NoError(t, grouping.Add(New(NewPathDescriptor("en", "color.yml", ""))))

	value, err := grouping.Get("color")
	require.NoError(t, err)
	require.NotNil(t, value)
}

func TestGroupingUnknownKeyIsNil(t *testing.T) {
	grouping, _ := newAddressGrouping(t)
	value, err := grouping.Get("dog")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestGroupingRejectsUnsupportedProvider(t *testing.T) {
	grouping := NewGrouping()

	err := grouping.Add(mapProvider{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported (please raise an issue)")
	require.Contains(t, err.Error(), "fakevalues.mapProvider")
	require.ErrorIs(t, err, ErrUnsupportedProvider)

	var unsupported *UnsupportedProviderError
	require.True(t, errors.As(err, &unsupported))
	require.Zero(t, grouping.Len())

	require.ErrorIs(t, grouping.Add(nil), ErrUnsupportedProvider)
	require.ErrorIs(t, grouping.Add((*Values)(nil)), ErrUnsupportedProvider)
}

func TestGroupingMergesGroupings(t *testing.T) {
	grouping, _ := newAddressGrouping(t)

	another := NewGrouping()
	address := New(NewPathDescriptor("en", "address.yml", "address"))
	require.NoError(t, another.Add(address))
	cat := New(NewPathDescriptor("en", "cat.yml", "creature"))
	require.NoError(t, another.Add(cat))

	require.NoError(t, grouping.Add(another))

	got, err := grouping.Get("address")
	require.NoError(t, err)
	want, _ := address.Get("address")
	require.NotNil(t, got)
	require.Equal(t, want, got)

	creature, err := grouping.Get("creature")
	require.NoError(t, err)
	require.NotNil(t, creature)
	require.Equal(t, 2, another.Len(), "merge must not modify the source grouping")
}

func TestGroupingIncomingValuesWinCollisions(t *testing.T) {
	grouping := NewGrouping()
	require.NoError(t, grouping.Add(New(NewPathDescriptor("en", "address.yml", "address"))))

	french := NewGrouping()
	require.NoError(t, french.Add(New(NewPathDescriptor("fr", "address.yml", "address"))))
	require.NoError(t, grouping.Add(french))

	provider, ok := grouping.Provider("address")
	require.True(t, ok)
	require.Equal(t, "fr", provider.(*Values).Locale())
}

func TestGroupingNestedGroupingsMergeRecursively(t *testing.T) {
	fsys := fstest.MapFS{
		"en/a.yml": {Data: []byte("shared: {from: a}\n")},
		"en/b.yml": {Data: []byte("shared: {from: b}\n")},
	}

	left := NewGrouping()
	require.NoError(t, left.Add(New(NewPathDescriptor("en", "a.yml", "shared"), WithFS(fsys))))
	right := NewGrouping()
	require.NoError(t, right.Add(New(NewPathDescriptor("en", "b.yml", "shared"), WithFS(fsys))))
	extra := NewGrouping()
	require.NoError(t, extra.Add(New(NewPathDescriptor("en", "color.yml", ""))))

	outer := NewGrouping()
	require.NoError(t, outer.Nest("shared", left))

	incoming := NewGrouping()
	require.NoError(t, incoming.Nest("shared", right))
	require.NoError(t, incoming.Nest("color", extra))
	require.NoError(t, outer.Add(incoming))

	value, err := outer.Get("shared")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"from": "b"}, value)

	color, err := outer.Get("color")
	require.NoError(t, err)
	require.NotNil(t, color)

	nested, ok := outer.Provider("shared")
	require.True(t, ok)
	merged := nested.(*Grouping)
	require.NotSame(t, left, merged)
	require.NotSame(t, right, merged)

	leftValue, err := left.Get("shared")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"from": "a"}, leftValue, "nested groupings are not mutated")
}

func TestGroupingRejectsCycles(t *testing.T) {
	g := NewGrouping()
	err := g.Nest("self", g)
	require.ErrorIs(t, err, ErrGroupingCycle)
	require.Zero(t, g.Len())

	parent := NewGrouping()
	child := NewGrouping()
	grandchild := NewGrouping()
	require.NoError(t, parent.Nest("child", child))
	require.NoError(t, child.Nest("grandchild", grandchild))
	require.ErrorIs(t, grandchild.Nest("parent", parent), ErrGroupingCycle)

	wrapper := NewGrouping()
	require.NoError(t, wrapper.Nest("address", grandchild))
	require.ErrorIs(t, grandchild.Add(wrapper), ErrGroupingCycle)

	value, err := parent.Get("child")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestGroupingAddSelfIsNotACycle(t *testing.T) {
	g, _ := newAddressGrouping(t)
	require.NoError(t, g.Add(g))

	value, err := g.Get("address")
	require.NoError(t, err)
	require.NotNil(t, value)
}

func TestGroupingEquality(t *testing.T) {
	a, _ := newAddressGrouping(t)
	b, _ := newAddressGrouping(t)
	require.True(t, a.Equal(b))

	require.NoError(t, b.Add(New(NewPathDescriptor("en", "cat.yml", "creature"))))
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(New(NewDescriptor("en"))))
}

func TestGroupingConcurrentAddAndGet(t *testing.T) {
	grouping := NewGrouping()
	files := []struct{ file, key string }{
		{"address.yml", "address"},
		{"cat.yml", "creature"},
		{"color.yml", "color"},
		{"name.yml", "name"},
	}

	var wg sync.WaitGroup
	for _, f := range files {
		f := f
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = grouping.Add(New(NewPathDescriptor("en", f.file, f.key)))
		}()
		go func() {
			defer wg.Done()
			_, _ = grouping.Get(f.key)
		}()
	}
	wg.Wait()

	require.Equal(t, []string{"address", "color", "creature", "name"}, grouping.Keys())
	for _, f := range files {
		value, err := grouping.Get(f.key)
		require.NoError(t, err)
		require.NotNil(t, value, f.key)
	}
}
