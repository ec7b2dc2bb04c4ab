package topology

import (
	"fmt"
	"math/bits"
)

// IForm classifies an entity by the number of axes it spans a full cell on.
type IForm uint8

const (
	Vertex IForm = iota // 0-form, point entities
	Edge                // 1-form, spans one axis
	Face                // 2-form, spans two axes
	Volume              // 3-form, the cell itself
)

func (f IForm) String() string {
	switch f {
	case Vertex:
		return "VERTEX"
	case Edge:
		return "EDGE"
	case Face:
		return "FACE"
	case Volume:
		return "VOLUME"
	}
	return fmt.Sprintf("IForm(%d)", uint8(f))
}

// NumOrientations is 3 for edges and faces, 1 otherwise
func (f IForm) NumOrientations() int {
	if f == Edge || f == Face {
		return 3
	}
	return 1
}

// Tags returns the node tags of this IForm ordered by orientation sub-index.
// Only the first NumOrientations entries are meaningful.
func (f IForm) Tags() [3]NodeTag {
	switch f {
	case Edge:
		return [3]NodeTag{TagEdgeX, TagEdgeY, TagEdgeZ}
	case Face:
		return [3]NodeTag{TagFaceX, TagFaceY, TagFaceZ}
	case Volume:
		return [3]NodeTag{TagVolume, TagVolume, TagVolume}
	}
	return [3]NodeTag{TagVertex, TagVertex, TagVertex}
}

// NodeTag is the 3-bit entity classification, one bit per axis. A set bit means
// the entity spans a full cell width on that axis (bit 0 is x).
type NodeTag uint8

const (
	TagVertex NodeTag = 0 // 000
	TagEdgeX  NodeTag = 1 // 001
	TagEdgeY  NodeTag = 2 // 010
	TagFaceZ  NodeTag = 3 // 011, normal along z
	TagEdgeZ  NodeTag = 4 // 100
	TagFaceY  NodeTag = 5 // 101, normal along y
	TagFaceX  NodeTag = 6 // 110, normal along x
	TagVolume NodeTag = 7 // 111

	TagFull = TagVolume
)

var tagNames = [8]string{"VERTEX", "EDGE_X", "EDGE_Y", "FACE_Z", "EDGE_Z", "FACE_Y", "FACE_X", "VOLUME"}

func (t NodeTag) String() string {
	if t > TagFull {
		return fmt.Sprintf("NodeTag(%d)", uint8(t))
	}
	return tagNames[t]
}

// IForm is the number of axes spanned by the tag
func (t NodeTag) IForm() IForm {
	return IForm(bits.OnesCount8(uint8(t & TagFull)))
}

// Spans reports whether the tag spans a full cell on the given axis
func (t NodeTag) Spans(axis int) bool {
	return t>>uint(axis)&1 == 1
}

// Dual is the axis complement of the tag
func (t NodeTag) Dual() NodeTag {
	return TagFull ^ t
}

// SubIndex is the orientation of an edge (its direction) or a face (its
// normal). Vertices and volumes have a single orientation, 0.
func (t NodeTag) SubIndex() int {
	switch t {
	case TagEdgeY, TagFaceY:
		return 1
	case TagEdgeZ, TagFaceZ:
		return 2
	}
	return 0
}

// EntityID identifies one mesh entity. The value is three IDDigits wide
// fields, i in the highest bits and k in the lowest. Each field holds the
// doubled index 2*(index+IndexZero) plus the tag bit of that axis, so a step
// of one half cell on an axis is a unit increment of its field. Ordering of
// IDs with equal tags is row-major in (i, j, k).
type EntityID uint64

const (
	IDDigits  = 21
	IndexZero = 1 << (IDDigits - 2)

	// MinIndex and MaxIndex bound the representable index on every axis
	MinIndex = -IndexZero
	MaxIndex = IndexZero - 1

	// MaxNumOfNeighbours bounds GetAdjacentCells (the 12 edges of a cell,
	// the 12 faces around a vertex)
	MaxNumOfNeighbours = 12

	fieldMask = 1<<IDDigits - 1
)

var fieldShift = [3]uint{2 * IDDigits, IDDigits, 0}

// Pack encodes (i, j, k, tag) without range checks.
func Pack(i, j, k int, tag NodeTag) EntityID {
	return EntityID(encodeField(i, tag, 0)<<fieldShift[0] |
		encodeField(j, tag, 1)<<fieldShift[1] |
		encodeField(k, tag, 2)<<fieldShift[2])
}

// PackIndex is Pack over an index triple
func PackIndex(idx [3]int, tag NodeTag) EntityID {
	return Pack(idx[0], idx[1], idx[2], tag)
}

func encodeField(i int, tag NodeTag, axis int) uint64 {
	return (uint64(i+IndexZero)<<1 | uint64(tag>>uint(axis)&1)) & fieldMask
}

func (id EntityID) field(axis int) uint64 {
	return uint64(id) >> fieldShift[axis] & fieldMask
}

// Unpack is the inverse of Pack
func Unpack(id EntityID) (i, j, k int, tag NodeTag) {
	idx, tag := id.Index()
	return idx[0], idx[1], idx[2], tag
}

// Index returns the index triple and tag of the entity
func (id EntityID) Index() (idx [3]int, tag NodeTag) {
	for axis := 0; axis < 3; axis++ {
		f := id.field(axis)
		idx[axis] = int(f>>1) - IndexZero
		tag |= NodeTag(f&1) << uint(axis)
	}
	return
}

// NodeTag extracts the tag bits
func (id EntityID) NodeTag() NodeTag {
	return NodeTag(id.field(0)&1 | (id.field(1)&1)<<1 | (id.field(2)&1)<<2)
}

// IForm of the entity
func (id EntityID) IForm() IForm {
	return id.NodeTag().IForm()
}

// TopoPoint is the continuous topological coordinate of the entity: its
// index plus one half on every axis it spans.
func (id EntityID) TopoPoint() (x [3]float64) {
	for axis := 0; axis < 3; axis++ {
		x[axis] = float64(int(id.field(axis))-2*IndexZero) * 0.5
	}
	return
}

// step moves the entity by half-cell offsets d on each axis. Moving an odd
// number of halves flips the tag bit of that axis.
func (id EntityID) step(d [3]int) EntityID {
	var out uint64
	for axis := 0; axis < 3; axis++ {
		f := (id.field(axis) + uint64(int64(d[axis]))) & fieldMask
		out |= f << fieldShift[axis]
	}
	return EntityID(out)
}

func (id EntityID) String() string {
	i, j, k, tag := Unpack(id)
	return fmt.Sprintf("(%d,%d,%d)/%s", i, j, k, tag)
}
