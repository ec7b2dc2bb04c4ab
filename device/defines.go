package device

import (
	"fmt"
	"strings"

	"github.com/notargets/plasmamesh/topology"
	"github.com/notargets/plasmamesh/volume"
)

// KernelDefines renders the block's memory layout and volume table as
// preprocessor definitions for kernel source. The hash macros reproduce
// topology.Hash for indices inside the memory box.
func KernelDefines(topo *topology.Topology, tbl *volume.Table) string {
	var sb strings.Builder
	n := topo.MemoryExtent()
	lo := topo.Memory.Lo
	axes := [3]string{"I", "J", "K"}

	for axis := 0; axis < 3; axis++ {
		sb.WriteString(fmt.Sprintf("#define MESH_N%s %d\n", axes[axis], n[axis]))
	}
	for axis := 0; axis < 3; axis++ {
		sb.WriteString(fmt.Sprintf("#define MESH_LO_%s (%d)\n", axes[axis], lo[axis]))
	}
	sb.WriteString("#define HASH_VERTEX(i,j,k) " +
		"((((i)-MESH_LO_I)*MESH_NJ + ((j)-MESH_LO_J))*MESH_NK + ((k)-MESH_LO_K))\n")
	sb.WriteString("#define HASH_VOLUME(i,j,k) HASH_VERTEX(i,j,k)\n")
	sb.WriteString("#define HASH_EDGE(i,j,k,s) (3*HASH_VERTEX(i,j,k) + (s))\n")
	sb.WriteString("#define HASH_FACE(i,j,k,s) (3*HASH_VERTEX(i,j,k) + (s))\n")

	rows := []struct {
		name string
		v    *[volume.NumTags]float64
	}{
		{"VOLUME", &tbl.Volume},
		{"DUAL_VOLUME", &tbl.DualVolume},
		{"INV_VOLUME", &tbl.InvVolume},
		{"INV_DUAL_VOLUME", &tbl.InvDualVolume},
	}
	for _, row := range rows {
		for tag := 0; tag < volume.NumTags; tag++ {
			sb.WriteString(fmt.Sprintf("#define %s_%03b %.17g\n", row.name, tag, row.v[tag]))
		}
	}
	return sb.String()
}
