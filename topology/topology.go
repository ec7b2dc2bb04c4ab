package topology

import (
	"fmt"
	"iter"
)

// Topology describes the index space of one mesh block. It is built once
// when the block is constructed and is read-only afterwards, so every method
// is safe for concurrent use.
type Topology struct {
	// Global index box of the whole mesh, local (owned) box of this block
	// and the ghost-padded memory box backing field storage
	Global, Local, Memory IndexBox

	// Ghost width per axis, 0 on degenerate axes
	GhostWidth [3]int

	// Folding rule used by ApplyMask
	Mask IDMask

	memExtent [3]int
	stride    [3]int
}

// NewTopology validates the boxes and derives the memory box and mask.
// Axes whose global extent is 1 are degenerate and never carry ghosts.
func NewTopology(global, local IndexBox, ghost [3]int, periodic [3]bool) (*Topology, error) {
	for axis := 0; axis < 3; axis++ {
		if global.Hi[axis]-global.Lo[axis] < 1 {
			return nil, fmt.Errorf("global box %v has no extent on axis %d", global, axis)
		}
		if local.Hi[axis]-local.Lo[axis] < 1 {
			return nil, fmt.Errorf("local box %v has no extent on axis %d", local, axis)
		}
		if ghost[axis] < 0 {
			return nil, fmt.Errorf("negative ghost width %d on axis %d", ghost[axis], axis)
		}
		if global.Lo[axis]-ghost[axis] < MinIndex || global.Hi[axis]+ghost[axis] > MaxIndex {
			return nil, fmt.Errorf("global box %v with ghost width %d exceeds representable index range on axis %d",
				global, ghost[axis], axis)
		}
	}
	if !global.ContainsBox(local) {
		return nil, fmt.Errorf("local box %v is not inside global box %v", local, global)
	}

	t := &Topology{
		Global: global,
		Local:  local,
	}
	for axis := 0; axis < 3; axis++ {
		if global.Hi[axis]-global.Lo[axis] > 1 {
			t.GhostWidth[axis] = ghost[axis]
		} else {
			periodic[axis] = false
		}
	}
	t.Memory = local.Grow(t.GhostWidth)
	t.memExtent = t.Memory.Extent()
	t.stride = [3]int{t.memExtent[1] * t.memExtent[2], t.memExtent[2], 1}
	t.Mask = newIDMask(global, t.Memory, periodic)
	return t, nil
}

// NewUniformTopology is a single-block topology of n cells per axis with the
// lower corner at the origin, local box equal to the global box.
func NewUniformTopology(n [3]int, ghost [3]int, periodic [3]bool) (*Topology, error) {
	box := NewIndexBox([3]int{}, n)
	return NewTopology(box, box, ghost, periodic)
}

// Degenerate reports whether the axis is collapsed (global extent 1)
func (t *Topology) Degenerate(axis int) bool {
	return t.Global.Hi[axis]-t.Global.Lo[axis] == 1
}

// NDims is the number of non-degenerate axes
func (t *Topology) NDims() (n int) {
	for axis := 0; axis < 3; axis++ {
		if !t.Degenerate(axis) {
			n++
		}
	}
	return
}

// MemoryExtent returns the number of index points of the memory box per axis
func (t *Topology) MemoryExtent() [3]int {
	return t.memExtent
}

// Pack encodes an entity. Builds tagged meshdebug panic with *OutOfRangeError
// when the index lies outside the memory box.
func (t *Topology) Pack(i, j, k int, tag NodeTag) EntityID {
	if boundsCheck {
		if err := t.checkPack(i, j, k, tag); err != nil {
			panic(err)
		}
	}
	return Pack(i, j, k, tag)
}

// PackChecked always validates the index against the memory box
func (t *Topology) PackChecked(i, j, k int, tag NodeTag) (EntityID, error) {
	if err := t.checkPack(i, j, k, tag); err != nil {
		return 0, err
	}
	return Pack(i, j, k, tag), nil
}

func (t *Topology) checkPack(i, j, k int, tag NodeTag) error {
	if tag > TagFull {
		return &OutOfRangeError{Axis: -1, Index: int(tag)}
	}
	for axis, v := range [3]int{i, j, k} {
		if v < t.Memory.Lo[axis] || v >= t.Memory.Hi[axis] {
			return &OutOfRangeError{Axis: axis, Index: v, Lo: t.Memory.Lo[axis], Hi: t.Memory.Hi[axis]}
		}
	}
	return nil
}

// Unpack is the inverse of Pack
func (t *Topology) Unpack(id EntityID) (i, j, k int, tag NodeTag) {
	return Unpack(id)
}

// MemorySize is the length of the flat storage for one field of the IForm
func (t *Topology) MemorySize(iform IForm) int {
	return t.Memory.Size() * iform.NumOrientations()
}

// Hash maps an entity inside the memory box to its offset in flat storage.
// The offset is row-major over (i,j,k) relative to the memory box origin;
// edges and faces interleave their three orientations. IDs outside the
// memory box are not checked and alias other slots, so neighbours from
// GetAdjacentCells must go through ApplyMask or AdjacentCellsWithin first.
func (t *Topology) Hash(id EntityID) int {
	idx, tag := id.Index()
	h := (idx[0]-t.Memory.Lo[0])*t.stride[0] +
		(idx[1]-t.Memory.Lo[1])*t.stride[1] +
		(idx[2] - t.Memory.Lo[2])
	switch tag.IForm() {
	case Edge, Face:
		return h*3 + tag.SubIndex()
	}
	return h
}

// Contains reports whether the entity index lies in the memory box
func (t *Topology) Contains(id EntityID) bool {
	idx, _ := id.Index()
	return t.Memory.Contains(idx)
}

// IsGhost reports whether the entity is in the memory box but not owned
func (t *Topology) IsGhost(id EntityID) bool {
	idx, _ := id.Index()
	return t.Memory.Contains(idx) && !t.Local.Contains(idx)
}

// Range iterates the owned entities of an IForm in hash order
func (t *Topology) Range(iform IForm) iter.Seq[EntityID] {
	return RangeBox(iform, t.Local)
}

// RangeBox iterates entities of an IForm with index inside box, row-major,
// orientations innermost.
func RangeBox(iform IForm, box IndexBox) iter.Seq[EntityID] {
	tags := iform.Tags()
	n := iform.NumOrientations()
	return func(yield func(EntityID) bool) {
		for i := box.Lo[0]; i < box.Hi[0]; i++ {
			for j := box.Lo[1]; j < box.Hi[1]; j++ {
				for k := box.Lo[2]; k < box.Hi[2]; k++ {
					for s := 0; s < n; s++ {
						if !yield(Pack(i, j, k, tags[s])) {
							return
						}
					}
				}
			}
		}
	}
}

// GetAdjacentCells is the block-bound form of the package function. Results
// are not bounded by the memory box; on a degenerate axis half of a cell's
// vertices lie past it. Mask or filter them before calling Hash.
func (t *Topology) GetAdjacentCells(target IForm, s EntityID, res *[MaxNumOfNeighbours]EntityID) int {
	return GetAdjacentCells(target, s, res)
}

// AdjacentCellsWithin returns the neighbours whose index lies inside box
func (t *Topology) AdjacentCellsWithin(target IForm, s EntityID, box IndexBox) []EntityID {
	var res [MaxNumOfNeighbours]EntityID
	n := GetAdjacentCells(target, s, &res)
	out := make([]EntityID, 0, n)
	for _, id := range res[:n] {
		if idx, _ := id.Index(); box.Contains(idx) {
			out = append(out, id)
		}
	}
	return out
}

// ApplyMask folds the entity back into range with this block's mask
func (t *Topology) ApplyMask(id EntityID) EntityID {
	return ApplyMask(id, t.Mask)
}

func (t *Topology) String() string {
	return fmt.Sprintf("Topology{global=%v local=%v memory=%v ghost=%v}",
		t.Global, t.Local, t.Memory, t.GhostWidth)
}
