package partitions

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/plasmamesh/topology"
)

// PartitionBuilder splits the owned cells of a block into partitions
type PartitionBuilder struct {
	Topology *topology.Topology

	// Partitioning parameters. NumPartitions wins over TargetPartitionSize
	// when both are set.
	NumPartitions       int
	TargetPartitionSize int
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how cells are grouped
type PartitionStrategy int

const (
	BlockPartition    PartitionStrategy = iota // Consecutive cells in hash order
	RoundRobin                                 // Distribute cyclically
	SpaceFillingCurve                          // Consecutive cells in Morton order
)

var strategyNames = map[string]PartitionStrategy{
	"block":  BlockPartition,
	"round":  RoundRobin,
	"morton": SpaceFillingCurve,
}

// ParseStrategy maps block, round or morton to a strategy
func ParseStrategy(name string) (PartitionStrategy, error) {
	s, ok := strategyNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown partition strategy %q", name)
	}
	return s, nil
}

func (s PartitionStrategy) String() string {
	for name, v := range strategyNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// BuildPartitions creates a partition layout of the owned cells
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.Topology == nil {
		return nil, fmt.Errorf("partition builder has no topology")
	}
	cells := make([]topology.EntityID, 0, pb.Topology.Local.Size())
	for c := range pb.Topology.Range(topology.Volume) {
		cells = append(cells, c)
	}

	numPartitions, err := pb.calculateNumPartitions(len(cells))
	if err != nil {
		return nil, err
	}

	if pb.Strategy == SpaceFillingCurve {
		sortMorton(cells, pb.Topology.Local.Lo)
	}
	cToP := pb.partitionCells(len(cells), numPartitions)

	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i].ID = i
	}
	layout := &PartitionLayout{
		TotalCells:    len(cells),
		NumPartitions: numPartitions,
		CellToPart:    make([]int, pb.Topology.MemorySize(topology.Volume)),
		topo:          pb.Topology,
	}
	for i := range layout.CellToPart {
		layout.CellToPart[i] = -1
	}
	for i, c := range cells {
		part := cToP[i]
		partitions[part].Cells = append(partitions[part].Cells, c)
		partitions[part].NumCells++
		layout.CellToPart[pb.Topology.Hash(c)] = part
	}

	for _, p := range partitions {
		layout.KpartMax = max(layout.KpartMax, p.NumCells)
	}
	for i := range partitions {
		partitions[i].MaxCells = layout.KpartMax
	}
	layout.Partitions = partitions

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

func (pb *PartitionBuilder) calculateNumPartitions(numCells int) (int, error) {
	n := pb.NumPartitions
	if n <= 0 {
		if pb.TargetPartitionSize <= 0 {
			return 0, fmt.Errorf("either NumPartitions or TargetPartitionSize must be positive")
		}
		n = int(math.Ceil(float64(numCells) / float64(pb.TargetPartitionSize)))
	}
	// Ensure at least one partition, and no empty ones
	return max(1, min(n, numCells)), nil
}

// partitionCells assigns each position of the ordered cell list a partition
func (pb *PartitionBuilder) partitionCells(numCells, numPartitions int) []int {
	cToP := make([]int, numCells)
	switch pb.Strategy {
	case RoundRobin:
		for i := range cToP {
			cToP[i] = i % numPartitions
		}
	default:
		// Contiguous runs whose sizes differ by at most one
		base, extra := numCells/numPartitions, numCells%numPartitions
		i := 0
		for p := 0; p < numPartitions; p++ {
			n := base
			if p < extra {
				n++
			}
			for end := i + n; i < end; i++ {
				cToP[i] = p
			}
		}
	}
	return cToP
}

// sortMorton orders cells along the Z-order curve of their offsets from lo
func sortMorton(cells []topology.EntityID, lo [3]int) {
	keys := make(map[topology.EntityID]uint64, len(cells))
	for _, c := range cells {
		idx, _ := c.Index()
		keys[c] = morton3D(uint64(idx[0]-lo[0]), uint64(idx[1]-lo[1]), uint64(idx[2]-lo[2]))
	}
	sort.SliceStable(cells, func(a, b int) bool {
		return keys[cells[a]] < keys[cells[b]]
	})
}

func expand3(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}

func morton3D(x, y, z uint64) uint64 {
	return expand3(x) | expand3(y)<<1 | expand3(z)<<2
}
