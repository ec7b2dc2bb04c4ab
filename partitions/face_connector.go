package partitions

import (
	"fmt"

	"github.com/notargets/plasmamesh/topology"
)

// FaceConnector holds, for every ordered pair of partitions, the indices a
// sweep uses to exchange cell values across the faces they share.
// PickIndices[p][q] are cell hashes in p whose values q needs;
// PlaceIndices[q][p] are the face hashes in q where those values land,
// position for position.
type FaceConnector struct {
	NumPartitions int

	PickIndices  [][]PickBuffer  // [sourcePartition][targetPartition]
	PlaceIndices [][]PlaceBuffer // [targetPartition][sourcePartition]

	// Number of (cell, interface face) pairs found
	InterfaceFaces int

	topo *topology.Topology
}

// PickBuffer contains cell hashes to gather for one target partition
type PickBuffer struct {
	Indices         []int
	TargetPartition int
}

// PlaceBuffer contains face hashes to scatter into from one source partition
type PlaceBuffer struct {
	Indices         []int
	SourcePartition int
}

// NewFaceConnector walks the faces of every partitioned cell and records the
// ones whose other cell belongs to a different partition. Neighbours are
// folded with the topology mask, so periodic axes connect across the block.
// Every recorded face and neighbour must hash inside the memory box.
func NewFaceConnector(topo *topology.Topology, layout *PartitionLayout) (*FaceConnector, error) {
	if topo == nil || layout == nil {
		return nil, fmt.Errorf("face connector needs a topology and a layout")
	}
	fc := &FaceConnector{
		NumPartitions: layout.NumPartitions,
		topo:          topo,
	}
	fc.initializeBuffers()

	var faces, cells [topology.MaxNumOfNeighbours]topology.EntityID
	for _, part := range layout.Partitions {
		for _, cell := range part.Cells {
			nf := topo.GetAdjacentCells(topology.Face, cell, &faces)
			for _, face := range faces[:nf] {
				nc := topo.GetAdjacentCells(topology.Volume, face, &cells)
				for _, other := range cells[:nc] {
					if other == cell {
						continue
					}
					other = topo.ApplyMask(other)
					if other == cell {
						continue
					}
					src := layout.GetPartition(other)
					if src < 0 || src == part.ID {
						continue
					}
					if !topo.Contains(face) || !topo.Contains(other) {
						return nil, fmt.Errorf("interface face %v of cell %v lies outside memory box %v, "+
							"periodic axes need a ghost width of at least 1", face, cell, topo.Memory)
					}
					fc.PickIndices[src][part.ID].Indices = append(
						fc.PickIndices[src][part.ID].Indices, topo.Hash(other))
					fc.PlaceIndices[part.ID][src].Indices = append(
						fc.PlaceIndices[part.ID][src].Indices, topo.Hash(face))
					fc.InterfaceFaces++
				}
			}
		}
	}
	return fc, nil
}

func (fc *FaceConnector) initializeBuffers() {
	fc.PickIndices = make([][]PickBuffer, fc.NumPartitions)
	fc.PlaceIndices = make([][]PlaceBuffer, fc.NumPartitions)
	for p := 0; p < fc.NumPartitions; p++ {
		fc.PickIndices[p] = make([]PickBuffer, fc.NumPartitions)
		fc.PlaceIndices[p] = make([]PlaceBuffer, fc.NumPartitions)
		for q := 0; q < fc.NumPartitions; q++ {
			fc.PickIndices[p][q] = PickBuffer{TargetPartition: q}
			fc.PlaceIndices[p][q] = PlaceBuffer{SourcePartition: q}
		}
	}
}

// GetPickIndices returns pick indices for sending from source to target partition
func (fc *FaceConnector) GetPickIndices(sourcePartition, targetPartition int) []int {
	if sourcePartition < 0 || sourcePartition >= fc.NumPartitions ||
		targetPartition < 0 || targetPartition >= fc.NumPartitions {
		return nil
	}
	return fc.PickIndices[sourcePartition][targetPartition].Indices
}

// GetPlaceIndices returns place indices for target partition receiving from source
func (fc *FaceConnector) GetPlaceIndices(targetPartition, sourcePartition int) []int {
	if targetPartition < 0 || targetPartition >= fc.NumPartitions ||
		sourcePartition < 0 || sourcePartition >= fc.NumPartitions {
		return nil
	}
	return fc.PlaceIndices[targetPartition][sourcePartition].Indices
}

// Verify checks index bounds, pick/place correspondence and that every
// recorded interface face was counted exactly once
func (fc *FaceConnector) Verify() error {
	cellSize := fc.topo.MemorySize(topology.Volume)
	faceSize := fc.topo.MemorySize(topology.Face)
	total := 0
	for p := 0; p < fc.NumPartitions; p++ {
		for q := 0; q < fc.NumPartitions; q++ {
			pick := fc.PickIndices[p][q].Indices
			place := fc.PlaceIndices[q][p].Indices
			if len(pick) != len(place) {
				return fmt.Errorf("length mismatch: pick[%d][%d]=%d, place[%d][%d]=%d",
					p, q, len(pick), q, p, len(place))
			}
			if p == q && len(pick) != 0 {
				return fmt.Errorf("partition %d exchanges %d values with itself", p, len(pick))
			}
			for i := range pick {
				if pick[i] < 0 || pick[i] >= cellSize {
					return fmt.Errorf("invalid pick index %d for partition %d (max %d)", pick[i], p, cellSize-1)
				}
				if place[i] < 0 || place[i] >= faceSize {
					return fmt.Errorf("invalid place index %d for partition %d (max %d)", place[i], q, faceSize-1)
				}
			}
			total += len(pick)
		}
	}
	if total != fc.InterfaceFaces {
		return fmt.Errorf("conservation error: total picks %d != interface faces %d", total, fc.InterfaceFaces)
	}
	return nil
}
