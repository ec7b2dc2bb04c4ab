package topology

// GetAdjacentCells writes the entities of the target IForm incident to s
// into res and returns how many were written. An entity is incident when its
// closure contains s or is contained in the closure of s. The order is fixed:
// target tags ascending, then offsets lowest-first with the k axis innermost.
// For a target IForm equal to that of s the only result is s itself.
// Results may lie outside any block.
func GetAdjacentCells(target IForm, s EntityID, res *[MaxNumOfNeighbours]EntityID) int {
	sTag := s.NodeTag()
	if target == sTag.IForm() {
		res[0] = s
		return 1
	}
	n := 0
	for t := TagVertex; t <= TagFull; t++ {
		if t.IForm() != target {
			continue
		}
		if t&sTag != sTag && t&sTag != t {
			continue
		}
		var offsets [3][]int
		for axis := 0; axis < 3; axis++ {
			if t.Spans(axis) == sTag.Spans(axis) {
				offsets[axis] = sameOffset
			} else {
				offsets[axis] = halfOffsets
			}
		}
		for _, di := range offsets[0] {
			for _, dj := range offsets[1] {
				for _, dk := range offsets[2] {
					res[n] = s.step([3]int{di, dj, dk})
					n++
				}
			}
		}
	}
	return n
}

var (
	sameOffset  = []int{0}
	halfOffsets = []int{-1, 1}
)

// AdjacentCells is GetAdjacentCells returning a fresh slice
func AdjacentCells(target IForm, s EntityID) []EntityID {
	var res [MaxNumOfNeighbours]EntityID
	n := GetAdjacentCells(target, s, &res)
	out := make([]EntityID, n)
	copy(out, res[:n])
	return out
}
