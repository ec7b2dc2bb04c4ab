package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the smallest physical extent or cell width treated as non-zero
const Epsilon = 1e-10

// ErrNotDeployed is returned by operations that need a deployed mapper
var ErrNotDeployed = errors.New("geometry: mapper not deployed")

// Box is an axis aligned bounding box, Lo <= Hi on every axis
type Box struct {
	Lo, Hi [3]float64
}

func (b Box) Extent() (d [3]float64) {
	for i := range d {
		d[i] = b.Hi[i] - b.Lo[i]
	}
	return
}

// Contains checks x against the box widened by tol on every axis
func (b Box) Contains(x [3]float64, tol [3]float64) bool {
	for i := range x {
		if x[i] < b.Lo[i]-tol[i] || x[i] > b.Hi[i]+tol[i] {
			return false
		}
	}
	return true
}

// DegenerateBoxError is raised by Deploy for a box with no physical extent
// or no index step on some axis. The block cannot be built from that box.
type DegenerateBoxError struct {
	Axis        int
	PhysExtent  float64
	IndexExtent float64
	Reason      string
}

func (e *DegenerateBoxError) Error() string {
	return fmt.Sprintf("degenerate box on axis %d (physical extent %g, index extent %g): %s",
		e.Axis, e.PhysExtent, e.IndexExtent, e.Reason)
}

// AffineMapper converts between topological and physical coordinates with a
// per-axis scale and origin. A degenerate axis (index extent 1) has zero
// scale both ways: Map returns the lower physical corner and InvMap returns
// the lower topological corner for any input on that axis.
//
// After Deploy the mapper is immutable and safe for concurrent use.
type AffineMapper struct {
	PhysBox Box
	TopoBox Box

	// Physical cell width per axis, extent / index extent
	Dx [3]float64

	degenerate [3]bool
	fromScale  [3]float64 // topo -> phys
	fromOrigin [3]float64
	toScale    [3]float64 // phys -> topo
	toOrigin   [3]float64
	epsilon    [3]float64
	deployed   bool
}

// NewAffineMapper deploys a mapper for the two boxes
func NewAffineMapper(topoBox, physBox Box) (*AffineMapper, error) {
	m := &AffineMapper{}
	if err := m.Deploy(topoBox, physBox); err != nil {
		return nil, err
	}
	return m, nil
}

// Deploy computes the transform. On failure the mapper is left unchanged.
func (m *AffineMapper) Deploy(topoBox, physBox Box) error {
	var next AffineMapper
	next.TopoBox, next.PhysBox = topoBox, physBox
	for axis := 0; axis < 3; axis++ {
		L := physBox.Hi[axis] - physBox.Lo[axis]
		n := topoBox.Hi[axis] - topoBox.Lo[axis]
		if !(L > Epsilon) {
			return &DegenerateBoxError{Axis: axis, PhysExtent: L, IndexExtent: n,
				Reason: "physical extent must exceed epsilon"}
		}
		if !(n >= 1) {
			return &DegenerateBoxError{Axis: axis, PhysExtent: L, IndexExtent: n,
				Reason: "index extent must be at least one step"}
		}
		next.Dx[axis] = L / n
		next.epsilon[axis] = Epsilon * next.Dx[axis]
		if n == 1 {
			next.degenerate[axis] = true
			next.fromOrigin[axis] = physBox.Lo[axis]
			next.toOrigin[axis] = topoBox.Lo[axis]
			continue
		}
		next.fromScale[axis] = next.Dx[axis]
		next.fromOrigin[axis] = physBox.Lo[axis] - topoBox.Lo[axis]*next.Dx[axis]
		next.toScale[axis] = 1 / next.Dx[axis]
		next.toOrigin[axis] = topoBox.Lo[axis] - physBox.Lo[axis]*next.toScale[axis]
	}
	next.deployed = true
	*m = next
	return nil
}

// Deployed reports whether Deploy has succeeded
func (m *AffineMapper) Deployed() bool { return m.deployed }

// Degenerate reports whether the axis was collapsed at deploy time
func (m *AffineMapper) Degenerate(axis int) bool { return m.degenerate[axis] }

// DegenerateAxes returns the collapsed-axis flags
func (m *AffineMapper) DegenerateAxes() [3]bool { return m.degenerate }

// Map converts a topological point to physical coordinates
func (m *AffineMapper) Map(x [3]float64) (y [3]float64) {
	for i := range x {
		y[i] = x[i]*m.fromScale[i] + m.fromOrigin[i]
	}
	return
}

// InvMap converts a physical point to topological coordinates
func (m *AffineMapper) InvMap(y [3]float64) (x [3]float64) {
	for i := range y {
		x[i] = y[i]*m.toScale[i] + m.toOrigin[i]
	}
	return
}

// MapVec is Map over gonum vectors
func (m *AffineMapper) MapVec(v r3.Vec) r3.Vec {
	y := m.Map([3]float64{v.X, v.Y, v.Z})
	return r3.Vec{X: y[0], Y: y[1], Z: y[2]}
}

// InvMapVec is InvMap over gonum vectors
func (m *AffineMapper) InvMapVec(v r3.Vec) r3.Vec {
	x := m.InvMap([3]float64{v.X, v.Y, v.Z})
	return r3.Vec{X: x[0], Y: x[1], Z: x[2]}
}

// Epsilon is the per-axis physical comparison tolerance, Epsilon scaled by
// the cell width
func (m *AffineMapper) Epsilon() [3]float64 {
	return m.epsilon
}

// SamePoint compares two physical points within the mapper tolerance,
// ignoring degenerate axes
func (m *AffineMapper) SamePoint(a, b [3]float64) bool {
	for i := range a {
		if m.degenerate[i] {
			continue
		}
		if !scalar.EqualWithinAbs(a[i], b[i], m.epsilon[i]) {
			return false
		}
	}
	return true
}

// InBounds reports whether a physical point lies inside the physical box
// within the mapper tolerance
func (m *AffineMapper) InBounds(y [3]float64) bool {
	return m.PhysBox.Contains(y, m.epsilon)
}

func (m *AffineMapper) String() string {
	return fmt.Sprintf("AffineMapper{phys=%v topo=%v dx=%v degenerate=%v}",
		m.PhysBox, m.TopoBox, m.Dx, m.degenerate)
}
