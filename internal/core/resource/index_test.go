package resource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	t.Run("lookup on empty index", func(t *testing.T) {
		idx := NewIndex(nil)
		_, ok := idx.Lookup("absent")
		require.False(t, ok)
		require.Zero(t, idx.Len())
	})

	t.Run("replace swaps wholesale", func(t *testing.T) {
		idx := NewIndex(nil)
		require.NoError(t, idx.Replace(map[string]Descriptor{
			"a": {Key: "a", RelativePath: "a.bin"},
			"b": {Key: "b", RelativePath: "b.bin"},
		}))
		require.Equal(t, 2, idx.Len())

		require.NoError(t, idx.Replace(map[string]Descriptor{
			"c": {Key: "c", RelativePath: "c.bin"},
		}))
		require.Equal(t, 1, idx.Len())
		_, ok := idx.Lookup("a")
		require.False(t, ok)
		d, ok := idx.Lookup("c")
		require.True(t, ok)
		require.Equal(t, "c.bin", d.RelativePath)
	})

	t.Run("lookup by handle", func(t *testing.T) {
		idx := NewIndex(nil)
		require.NoError(t, idx.Replace(map[string]Descriptor{
			"a": {Key: "a", RelativePath: "a.bin"},
		}))
		d, ok := idx.LookupHandle(HandleFor("a"))
		require.True(t, ok)
		require.Equal(t, "a", d.Key)

		_, ok = idx.LookupHandle(HandleFor("missing"))
		require.False(t, ok)
	})

	t.Run("keys snapshot", func(t *testing.T) {
		idx := NewIndex(nil)
		require.NoError(t, idx.Replace(map[string]Descriptor{
			"a": {Key: "a"},
			"b": {Key: "b"},
		}))
		require.ElementsMatch(t, []string{"a", "b"}, idx.Keys())
	})
}
