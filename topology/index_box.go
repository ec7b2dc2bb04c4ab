package topology

import "fmt"

// IndexBox is a half-open box [Lo, Hi) in topological index space
type IndexBox struct {
	Lo, Hi [3]int
}

// NewIndexBox builds a box from its lower corner and extents
func NewIndexBox(lo, extent [3]int) IndexBox {
	return IndexBox{
		Lo: lo,
		Hi: [3]int{lo[0] + extent[0], lo[1] + extent[1], lo[2] + extent[2]},
	}
}

func (b IndexBox) Extent() (n [3]int) {
	for i := range n {
		n[i] = b.Hi[i] - b.Lo[i]
	}
	return
}

// Size is the number of index points in the box, 0 for an empty box
func (b IndexBox) Size() int {
	n := b.Extent()
	if n[0] <= 0 || n[1] <= 0 || n[2] <= 0 {
		return 0
	}
	return n[0] * n[1] * n[2]
}

func (b IndexBox) Contains(idx [3]int) bool {
	for i := range idx {
		if idx[i] < b.Lo[i] || idx[i] >= b.Hi[i] {
			return false
		}
	}
	return true
}

// ContainsBox reports whether o lies entirely inside b
func (b IndexBox) ContainsBox(o IndexBox) bool {
	for i := 0; i < 3; i++ {
		if o.Lo[i] < b.Lo[i] || o.Hi[i] > b.Hi[i] {
			return false
		}
	}
	return true
}

// Grow widens the box by w on both sides of every axis
func (b IndexBox) Grow(w [3]int) IndexBox {
	for i := 0; i < 3; i++ {
		b.Lo[i] -= w[i]
		b.Hi[i] += w[i]
	}
	return b
}

func (b IndexBox) String() string {
	return fmt.Sprintf("[%d,%d,%d]-[%d,%d,%d]", b.Lo[0], b.Lo[1], b.Lo[2], b.Hi[0], b.Hi[1], b.Hi[2])
}
