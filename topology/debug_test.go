//go:build meshdebug

package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packPanic(topo *Topology, i, j, k int, tag NodeTag) (err *OutOfRangeError) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(*OutOfRangeError)
		}
	}()
	topo.Pack(i, j, k, tag)
	return nil
}

func TestPackPanicsOutsideMemoryBox(t *testing.T) {
	topo, err := NewUniformTopology([3]int{4, 4, 4}, [3]int{1, 1, 1}, [3]bool{})
	require.NoError(t, err)

	assert.NotPanics(t, func() { topo.Pack(-1, 4, 0, TagFaceY) })

	oor := packPanic(topo, 99, 0, 0, TagVertex)
	require.NotNil(t, oor, "index beyond the memory box")
	assert.Equal(t, 0, oor.Axis)
	assert.Equal(t, 99, oor.Index)
	assert.Equal(t, -1, oor.Lo)
	assert.Equal(t, 5, oor.Hi)

	oor = packPanic(topo, 0, 0, 0, NodeTag(8))
	require.NotNil(t, oor, "tag outside 0..7")
	assert.Equal(t, -1, oor.Axis)
	assert.Equal(t, 8, oor.Index)
}
