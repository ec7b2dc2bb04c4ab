package device

import (
	"strings"
	"testing"

	"github.com/notargets/plasmamesh/topology"
	"github.com/notargets/plasmamesh/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelDefines(t *testing.T) {
	topo, err := topology.NewUniformTopology([3]int{8, 4, 1}, [3]int{2, 2, 2}, [3]bool{})
	require.NoError(t, err)
	tbl := volume.Build([3]float64{0.5, 0.25, 3}, [3]bool{false, false, true})

	src := KernelDefines(topo, &tbl)
	lines := strings.Split(strings.TrimSpace(src), "\n")
	assert.Len(t, lines, 6+4+32)
	assert.Contains(t, src, "#define MESH_NI 12\n")
	assert.Contains(t, src, "#define MESH_NK 1\n")
	assert.Contains(t, src, "#define MESH_LO_J (-2)\n")
	assert.Contains(t, src, "#define VOLUME_000 1\n")
	assert.Contains(t, src, "#define VOLUME_111 0.125\n")
	assert.Contains(t, src, "#define INV_VOLUME_100 0\n")
	assert.Contains(t, src, "#define INV_DUAL_VOLUME_100 8\n")
	assert.Contains(t, src, "#define DUAL_VOLUME_011 1\n")
}

func TestVolumeTableRoundTrip(t *testing.T) {
	dev, err := NewDevice()
	if err != nil {
		t.Skipf("no OCCA device: %v", err)
	}
	defer dev.Free()

	tbl := volume.Build([3]float64{0.1, 0.2, 0.4}, [3]bool{})
	mem, err := UploadVolumeTable(dev, &tbl)
	require.NoError(t, err)
	defer mem.Free()
	assert.Equal(t, tbl, mem.Read())

	coarse := volume.Build([3]float64{0.2, 0.4, 0.8}, [3]bool{})
	mem.Update(&coarse)
	assert.Equal(t, coarse, mem.Read())
}

func TestUploadNilDevice(t *testing.T) {
	tbl := volume.Build([3]float64{1, 1, 1}, [3]bool{})
	_, err := UploadVolumeTable(nil, &tbl)
	assert.Error(t, err)
}
