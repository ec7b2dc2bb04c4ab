package mesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/notargets/plasmamesh/geometry"
	"github.com/notargets/plasmamesh/logging"
	"github.com/notargets/plasmamesh/topology"
	"github.com/notargets/plasmamesh/volume"
	"gonum.org/v1/gonum/spatial/r3"
)

// Block is one structured mesh block on a Cartesian affine geometry: the
// index-space topology, the affine mapper and the volume table derived from
// them. Deploy runs once, single threaded, before any field touches the
// block; afterwards every query is a pure lookup.
type Block struct {
	Name string
	*topology.Topology
	Mapper geometry.AffineMapper
	Table  volume.Table

	log logging.Logger
}

// Option configures a Block at construction
type Option func(*Block)

// WithLogger sets the logger used by Deploy
func WithLogger(l logging.Logger) Option {
	return func(b *Block) { b.log = l }
}

// WithName labels the block in logs and summaries
func WithName(name string) Option {
	return func(b *Block) { b.Name = name }
}

// NewBlock wraps a topology. The block must be deployed before geometric
// queries are meaningful.
func NewBlock(topo *topology.Topology, opts ...Option) *Block {
	b := &Block{
		Name:     "block",
		Topology: topo,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TopoBox is the global index box as a real-valued box, the domain of Map
func (b *Block) TopoBox() geometry.Box {
	var box geometry.Box
	for axis := 0; axis < 3; axis++ {
		box.Lo[axis] = float64(b.Global.Lo[axis])
		box.Hi[axis] = float64(b.Global.Hi[axis])
	}
	return box
}

// Deploy fits the mapper to the physical bounding box of the global index
// box and rebuilds the volume table. A failed Deploy leaves the block as it
// was; the caller must supply a corrected box.
func (b *Block) Deploy(physBox geometry.Box) error {
	var m geometry.AffineMapper
	if err := m.Deploy(b.TopoBox(), physBox); err != nil {
		b.log.Error("deploy failed", logging.String("block", b.Name), logging.Err(err))
		return fmt.Errorf("deploy block %s: %w", b.Name, err)
	}
	tbl, err := volume.FromMapper(&m)
	if err != nil {
		return fmt.Errorf("deploy block %s: %w", b.Name, err)
	}
	b.Mapper, b.Table = m, tbl

	b.log.Debug("deployed mapper",
		logging.String("block", b.Name),
		logging.Any("dx", m.Dx),
		logging.Any("degenerate", m.DegenerateAxes()))
	b.log.Info("block deployed",
		logging.String("block", b.Name),
		logging.Int("ndims", b.NDims()),
		logging.Int("cells", b.Local.Size()),
		logging.Any("memory", b.Memory.String()))
	return nil
}

// Deployed reports whether the geometric tables are valid
func (b *Block) Deployed() bool {
	return b.Mapper.Deployed()
}

// Refine returns a new deployed block with the index extents multiplied by
// ratio on every non-degenerate axis, on the same physical box.
func (b *Block) Refine(ratio int) (*Block, error) {
	if ratio < 1 {
		return nil, fmt.Errorf("refinement ratio %d must be at least 1", ratio)
	}
	if !b.Deployed() {
		return nil, geometry.ErrNotDeployed
	}
	scale := func(box topology.IndexBox) topology.IndexBox {
		for axis := 0; axis < 3; axis++ {
			if b.Degenerate(axis) {
				continue
			}
			box.Lo[axis] *= ratio
			box.Hi[axis] *= ratio
		}
		return box
	}
	topo, err := topology.NewTopology(scale(b.Global), scale(b.Local), b.GhostWidth, b.Mask.Periodic)
	if err != nil {
		return nil, fmt.Errorf("refine block %s: %w", b.Name, err)
	}
	fine := NewBlock(topo, WithName(fmt.Sprintf("%s/r%d", b.Name, ratio)), WithLogger(b.log))
	if err = fine.Deploy(b.Mapper.PhysBox); err != nil {
		return nil, err
	}
	return fine, nil
}

func (b *Block) Map(x [3]float64) [3]float64 {
	return b.Mapper.Map(x)
}

func (b *Block) InvMap(y [3]float64) [3]float64 {
	return b.Mapper.InvMap(y)
}

// Point is the physical location of an entity's centre
func (b *Block) Point(id topology.EntityID) [3]float64 {
	return b.Mapper.Map(id.TopoPoint())
}

// PointVec is Point as a gonum vector
func (b *Block) PointVec(id topology.EntityID) r3.Vec {
	p := b.Point(id)
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// Locate returns the cell containing a physical point and the point's
// offset inside that cell in [0,1) per axis. A point on the upper face of
// the physical box belongs to the last cell with offset 1. Degenerate axes
// always give offset 0.
func (b *Block) Locate(y [3]float64) (cell topology.EntityID, frac [3]float64) {
	x := b.Mapper.InvMap(y)
	eps := b.Mapper.Epsilon()
	var idx [3]int
	for axis := 0; axis < 3; axis++ {
		f := math.Floor(x[axis])
		idx[axis] = int(f)
		frac[axis] = x[axis] - f
		if b.Mapper.Degenerate(axis) {
			continue
		}
		hi := b.Global.Hi[axis]
		if idx[axis] >= hi && math.Abs(y[axis]-b.Mapper.PhysBox.Hi[axis]) <= eps[axis] {
			idx[axis] = hi - 1
			frac[axis] = 1
		}
	}
	return topology.PackIndex(idx, topology.TagVolume), frac
}

func (b *Block) Volume(id topology.EntityID) float64 {
	return b.Table.Volume[id.NodeTag()]
}

func (b *Block) DualVolume(id topology.EntityID) float64 {
	return b.Table.DualVolume[id.NodeTag()]
}

func (b *Block) InvVolume(id topology.EntityID) float64 {
	return b.Table.InvVolume[id.NodeTag()]
}

func (b *Block) InvDualVolume(id topology.EntityID) float64 {
	return b.Table.InvDualVolume[id.NodeTag()]
}

// Dump renders the full block state for debugging
func (b *Block) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableMethods: true}
	return cfg.Sdump(struct {
		Name     string
		Topology *topology.Topology
		Mapper   geometry.AffineMapper
		Table    volume.Table
	}{b.Name, b.Topology, b.Mapper, b.Table})
}

// String returns a summary of the block's index space and metric
func (b *Block) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("=== Mesh Block %s ===\n", b.Name))

	sb.WriteString("\n--- Index Space ---\n")
	sb.WriteString(fmt.Sprintf("  Global box: %v\n", b.Global))
	sb.WriteString(fmt.Sprintf("  Local box: %v (%d cells)\n", b.Local, b.Local.Size()))
	sb.WriteString(fmt.Sprintf("  Memory box: %v\n", b.Memory))
	sb.WriteString(fmt.Sprintf("  Ghost width: %v\n", b.GhostWidth))
	sb.WriteString(fmt.Sprintf("  Periodic: %v\n", b.Mask.Periodic))
	sb.WriteString(fmt.Sprintf("  Dimensions: %d\n", b.NDims()))
	for iform := topology.Vertex; iform <= topology.Volume; iform++ {
		sb.WriteString(fmt.Sprintf("  Memory size %-6s: %d\n", iform, b.MemorySize(iform)))
	}

	sb.WriteString("\n--- Geometry ---\n")
	if !b.Deployed() {
		sb.WriteString("  not deployed\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Physical box: %v - %v\n", b.Mapper.PhysBox.Lo, b.Mapper.PhysBox.Hi))
		sb.WriteString(fmt.Sprintf("  Cell width: [%.4e, %.4e, %.4e]\n", b.Mapper.Dx[0], b.Mapper.Dx[1], b.Mapper.Dx[2]))
		sb.WriteString(fmt.Sprintf("  Degenerate axes: %v\n", b.Mapper.DegenerateAxes()))
		sb.WriteString("\n--- Volume Table ---\n")
		sb.WriteString(b.Table.String())
	}

	sb.WriteString("\n===========================\n")
	return sb.String()
}
