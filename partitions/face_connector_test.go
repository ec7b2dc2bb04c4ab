package partitions

import (
	"testing"

	"github.com/notargets/plasmamesh/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConnector(t *testing.T, topo *topology.Topology, parts int, s PartitionStrategy) *FaceConnector {
	t.Helper()
	layout, err := (&PartitionBuilder{Topology: topo, NumPartitions: parts, Strategy: s}).BuildPartitions()
	require.NoError(t, err)
	fc, err := NewFaceConnector(topo, layout)
	require.NoError(t, err)
	require.NoError(t, fc.Verify())
	return fc
}

func TestFaceConnectorInterfaces(t *testing.T) {
	tests := []struct {
		name     string
		periodic [3]bool
		ghost    [3]int
		parts    int
		strategy PartitionStrategy
		want     int
		wantErr  bool
	}{
		{"two slabs", [3]bool{}, [3]int{1, 1, 1}, 2, BlockPartition, 8, false},
		{"two slabs periodic", [3]bool{true, false, false}, [3]int{1, 1, 1}, 2, BlockPartition, 16, false},
		{"round robin", [3]bool{}, [3]int{1, 1, 1}, 2, RoundRobin, 24, false},
		{"morton quadrants", [3]bool{}, [3]int{1, 1, 1}, 4, SpaceFillingCurve, 16, false},
		{"single partition", [3]bool{true, true, false}, [3]int{1, 1, 1}, 1, BlockPartition, 0, false},
		{"no ghosts", [3]bool{}, [3]int{}, 2, BlockPartition, 8, false},
		{"periodic without ghosts", [3]bool{true, false, false}, [3]int{}, 2, BlockPartition, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := topology.NewUniformTopology([3]int{4, 4, 1}, tt.ghost, tt.periodic)
			require.NoError(t, err)
			layout, err := (&PartitionBuilder{Topology: topo, NumPartitions: tt.parts, Strategy: tt.strategy}).BuildPartitions()
			require.NoError(t, err)

			fc, err := NewFaceConnector(topo, layout)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, fc)
				return
			}
			require.NoError(t, err)
			require.NoError(t, fc.Verify())
			assert.Equal(t, tt.want, fc.InterfaceFaces)
		})
	}
}

func TestFaceConnectorPickPlace(t *testing.T) {
	topo := newTopo(t, [3]int{4, 4, 1}, [3]bool{})
	fc := buildConnector(t, topo, 2, BlockPartition)

	pick := fc.GetPickIndices(0, 1)
	place := fc.GetPlaceIndices(1, 0)
	require.Len(t, pick, 4)
	require.Len(t, place, 4)
	for n := range pick {
		cell := topology.Pack(1, n, 0, topology.TagVolume)
		face := topology.Pack(2, n, 0, topology.TagFaceX)
		assert.Equal(t, topo.Hash(cell), pick[n])
		assert.Equal(t, topo.Hash(face), place[n])
	}
	assert.Nil(t, fc.GetPickIndices(0, 5))
	assert.Nil(t, fc.GetPlaceIndices(-1, 0))
	assert.Empty(t, fc.GetPickIndices(0, 0))
}

func TestFaceConnectorVerifyDetectsMismatch(t *testing.T) {
	topo := newTopo(t, [3]int{4, 4, 1}, [3]bool{})
	fc := buildConnector(t, topo, 2, BlockPartition)
	fc.PickIndices[0][1].Indices = fc.PickIndices[0][1].Indices[1:]
	assert.Error(t, fc.Verify())

	_, err := NewFaceConnector(topo, nil)
	assert.Error(t, err)
}
