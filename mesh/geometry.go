package mesh

import "github.com/notargets/plasmamesh/topology"

// Geometry is the capability set field storage, solvers and surface
// classification consume from a mesh block. Implementations are read-only
// after deployment and safe for concurrent use.
type Geometry interface {
	Pack(i, j, k int, tag topology.NodeTag) topology.EntityID
	Unpack(id topology.EntityID) (i, j, k int, tag topology.NodeTag)
	Hash(id topology.EntityID) int
	MemorySize(iform topology.IForm) int

	// Map and InvMap convert between topological and physical coordinates
	Map(x [3]float64) [3]float64
	InvMap(y [3]float64) [3]float64
	Point(id topology.EntityID) [3]float64

	Volume(id topology.EntityID) float64
	DualVolume(id topology.EntityID) float64
	InvVolume(id topology.EntityID) float64
	InvDualVolume(id topology.EntityID) float64
}

var _ Geometry = &Block{}
