package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopologyValidation(t *testing.T) {
	global := NewIndexBox([3]int{}, [3]int{8, 8, 1})
	_, err := NewTopology(global, NewIndexBox([3]int{4, 0, 0}, [3]int{8, 8, 1}), [3]int{}, [3]bool{})
	assert.Error(t, err, "local box overflowing global box")
	_, err = NewTopology(global, global, [3]int{-1, 0, 0}, [3]bool{})
	assert.Error(t, err, "negative ghost width")
	_, err = NewTopology(NewIndexBox([3]int{}, [3]int{8, 0, 1}), global, [3]int{}, [3]bool{})
	assert.Error(t, err, "empty global box")

	topo, err := NewTopology(global, NewIndexBox([3]int{4, 0, 0}, [3]int{4, 8, 1}), [3]int{2, 2, 2}, [3]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 2, 0}, topo.GhostWidth, "degenerate axis carries no ghosts")
	assert.Equal(t, IndexBox{Lo: [3]int{2, -2, 0}, Hi: [3]int{10, 10, 1}}, topo.Memory)
	assert.Equal(t, [3]bool{true, false, false}, topo.Mask.Periodic)
	assert.Equal(t, 2, topo.NDims())
	assert.True(t, topo.Degenerate(2))
}

func TestHashVertexBijection(t *testing.T) {
	topo, err := NewUniformTopology([3]int{5, 3, 4}, [3]int{1, 2, 1}, [3]bool{})
	require.NoError(t, err)
	n := topo.MemoryExtent()
	require.Equal(t, [3]int{7, 7, 6}, n)
	size := topo.MemorySize(Vertex)
	require.Equal(t, n[0]*n[1]*n[2], size)

	seen := make([]bool, size)
	prev := -1
	for id := range RangeBox(Vertex, topo.Memory) {
		h := topo.Hash(id)
		require.True(t, h >= 0 && h < size, "hash %d out of [0,%d)", h, size)
		require.False(t, seen[h], "collision at %d", h)
		require.Greater(t, h, prev, "hash not monotonic at %v", id)
		seen[h] = true
		prev = h
	}
	assert.Equal(t, size-1, prev)
}

func TestHashEdgeFaceInterleave(t *testing.T) {
	topo, err := NewUniformTopology([3]int{3, 3, 3}, [3]int{1, 1, 1}, [3]bool{})
	require.NoError(t, err)
	for _, iform := range []IForm{Edge, Face, Volume} {
		size := topo.MemorySize(iform)
		seen := make(map[int]EntityID, size)
		count := 0
		for id := range RangeBox(iform, topo.Memory) {
			h := topo.Hash(id)
			require.True(t, h >= 0 && h < size)
			if other, dup := seen[h]; dup {
				t.Fatalf("%v: %v and %v share hash %d", iform, other, id, h)
			}
			seen[h] = id
			assert.Equal(t, count, h, "range order is hash order")
			count++
		}
		assert.Equal(t, size, count)
	}
	assert.Equal(t, 3*topo.MemorySize(Vertex), topo.MemorySize(Edge))
	assert.Equal(t, topo.MemorySize(Vertex), topo.MemorySize(Volume))
}

func TestRangeOwnedOnly(t *testing.T) {
	topo, err := NewUniformTopology([3]int{4, 2, 1}, [3]int{2, 2, 2}, [3]bool{})
	require.NoError(t, err)
	n := 0
	for id := range topo.Range(Face) {
		assert.True(t, topo.Contains(id))
		assert.False(t, topo.IsGhost(id))
		n++
	}
	assert.Equal(t, 4*2*1*3, n)

	stopped := 0
	for range topo.Range(Vertex) {
		stopped++
		if stopped == 3 {
			break
		}
	}
	assert.Equal(t, 3, stopped)
	assert.True(t, topo.IsGhost(Pack(-1, 0, 0, TagVertex)))
	assert.False(t, topo.Contains(Pack(0, 0, 1, TagVertex)))
}
