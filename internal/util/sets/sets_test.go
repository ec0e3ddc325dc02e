package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New("Class", "Interface")
	s.Add("Enum")
	s.Add("Class")

	require.Equal(t, 3, s.Len())
	require.True(t, s.Has("Enum"))
	require.False(t, s.Has("Function"))
	require.Equal(t, []string{"Class", "Enum", "Interface"}, Sorted(s))

	var empty Set[string]
	require.False(t, empty.Has("Class"))
	require.Empty(t, Sorted(empty))
}
