package partitions

import (
	"fmt"

	"github.com/notargets/plasmamesh/topology"
	"gonum.org/v1/gonum/floats"
)

// Partition is a set of owned cells of one block processed together by a
// single worker in a parallel-for sweep
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Cell membership in sweep order
	Cells    []topology.EntityID
	NumCells int // Actual number of cells
	MaxCells int // Padded size, equal across partitions for uniform kernels
}

// PartitionLayout manages the decomposition of a block's owned cells
type PartitionLayout struct {
	// All partitions of the block
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumCells) across all partitions
	TotalCells    int // Sum of all cells across partitions
	NumPartitions int // Total number of partitions

	// Cell to partition mapping indexed by the cell hash, -1 for cells the
	// block does not own
	CellToPart []int

	topo *topology.Topology
}

// GetPartition returns the partition owning a cell, or -1
func (pl *PartitionLayout) GetPartition(cell topology.EntityID) int {
	if !pl.topo.Contains(cell) {
		return -1
	}
	h := pl.topo.Hash(cell)
	if h < 0 || h >= len(pl.CellToPart) {
		return -1
	}
	return pl.CellToPart[h]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	actualMax, total := 0, 0
	for _, p := range pl.Partitions {
		if p.NumCells != len(p.Cells) {
			return fmt.Errorf("partition %d: NumCells %d != len(Cells) %d", p.ID, p.NumCells, len(p.Cells))
		}
		if p.NumCells > actualMax {
			actualMax = p.NumCells
		}
		if p.MaxCells != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxCells %d != KpartMax %d",
				p.ID, p.MaxCells, pl.KpartMax)
		}
		for _, c := range p.Cells {
			if owner := pl.GetPartition(c); owner != p.ID {
				return fmt.Errorf("partition %d: cell %v mapped to partition %d", p.ID, c, owner)
			}
		}
		total += p.NumCells
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalCells {
		return fmt.Errorf("partitions hold %d cells, layout expects %d", total, pl.TotalCells)
	}
	return nil
}

// Imbalance is the largest partition load over the mean load, 1 when
// perfectly balanced
func (pl *PartitionLayout) Imbalance() float64 {
	if len(pl.Partitions) == 0 {
		return 1
	}
	loads := make([]float64, len(pl.Partitions))
	for i, p := range pl.Partitions {
		loads[i] = float64(p.NumCells)
	}
	mean := floats.Sum(loads) / float64(len(loads))
	if mean == 0 {
		return 1
	}
	return floats.Max(loads) / mean
}
