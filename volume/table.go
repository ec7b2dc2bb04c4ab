package volume

import (
	"fmt"
	"strings"

	"github.com/notargets/plasmamesh/geometry"
	"github.com/notargets/plasmamesh/topology"
	"gonum.org/v1/gonum/mat"
)

// NumTags is the number of node tags, 2^3
const NumTags = 8

// Table holds the primal and dual measures of every node tag for one
// deployed block, indexed by topology.NodeTag.
//
// Degenerate axes contribute a unit length to Volume and DualVolume and a
// zero reciprocal to InvVolume and InvDualVolume, so any tag touching a
// collapsed axis carries no inverse metric weight.
type Table struct {
	Volume        [NumTags]float64
	DualVolume    [NumTags]float64
	InvVolume     [NumTags]float64
	InvDualVolume [NumTags]float64
}

// Build derives the table from per-axis cell widths. An axis is clamped when
// it is flagged degenerate or its width is at or below geometry.Epsilon.
func Build(dx [3]float64, degenerate [3]bool) (tbl Table) {
	var length, invLength [3]float64
	for axis := 0; axis < 3; axis++ {
		switch {
		case degenerate[axis]:
			length[axis] = 1
		case dx[axis] <= geometry.Epsilon:
			length[axis] = dx[axis]
		default:
			length[axis] = dx[axis]
			invLength[axis] = 1 / dx[axis]
		}
	}

	for tag := topology.NodeTag(0); tag < NumTags; tag++ {
		v, inv := 1.0, 1.0
		for axis := 0; axis < 3; axis++ {
			if tag.Spans(axis) {
				v *= length[axis]
				inv *= invLength[axis]
			}
		}
		tbl.Volume[tag] = v
		tbl.InvVolume[tag] = inv
	}
	for tag := topology.NodeTag(0); tag < NumTags; tag++ {
		tbl.DualVolume[tag] = tbl.Volume[tag.Dual()]
		tbl.InvDualVolume[tag] = tbl.InvVolume[tag.Dual()]
	}
	return
}

// FromMapper builds the table of a deployed mapper
func FromMapper(m *geometry.AffineMapper) (Table, error) {
	if !m.Deployed() {
		return Table{}, geometry.ErrNotDeployed
	}
	return Build(m.Dx, m.DegenerateAxes()), nil
}

// Matrix returns the table as a 4×8 dense matrix, rows in the order
// Volume, DualVolume, InvVolume, InvDualVolume
func (tbl *Table) Matrix() *mat.Dense {
	data := make([]float64, 0, 4*NumTags)
	data = append(data, tbl.Volume[:]...)
	data = append(data, tbl.DualVolume[:]...)
	data = append(data, tbl.InvVolume[:]...)
	data = append(data, tbl.InvDualVolume[:]...)
	return mat.NewDense(4, NumTags, data)
}

func (tbl *Table) String() string {
	var sb strings.Builder
	sb.WriteString("tag      volume        dual          inv           inv_dual\n")
	for tag := topology.NodeTag(0); tag < NumTags; tag++ {
		sb.WriteString(fmt.Sprintf("%03b %-7s", uint8(tag), tag))
		sb.WriteString(fmt.Sprintf(" %-13.6e %-13.6e %-13.6e %-13.6e\n",
			tbl.Volume[tag], tbl.DualVolume[tag], tbl.InvVolume[tag], tbl.InvDualVolume[tag]))
	}
	return sb.String()
}
