package topology

// IDMask folds indices produced by neighbour steps back into range. Periodic
// axes wrap onto the global box; other axes clamp onto the memory box.
type IDMask struct {
	Lo, Extent   [3]int // global box
	MemLo, MemHi [3]int
	Periodic     [3]bool
}

func newIDMask(global, memory IndexBox, periodic [3]bool) IDMask {
	return IDMask{
		Lo:       global.Lo,
		Extent:   global.Extent(),
		MemLo:    memory.Lo,
		MemHi:    memory.Hi,
		Periodic: periodic,
	}
}

// ApplyMask returns id with every index folded by the mask; the tag is kept.
func ApplyMask(id EntityID, m IDMask) EntityID {
	idx, tag := id.Index()
	for axis := 0; axis < 3; axis++ {
		v := idx[axis]
		switch {
		case m.Periodic[axis] && m.Extent[axis] > 0:
			e := m.Extent[axis]
			v = m.Lo[axis] + ((v-m.Lo[axis])%e+e)%e
		case v < m.MemLo[axis]:
			v = m.MemLo[axis]
		case v >= m.MemHi[axis] && m.MemHi[axis] > m.MemLo[axis]:
			v = m.MemHi[axis] - 1
		}
		idx[axis] = v
	}
	return PackIndex(idx, tag)
}
