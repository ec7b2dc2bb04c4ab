package topology

import "fmt"

// OutOfRangeError reports an index outside the memory box, or an invalid
// node tag (Axis == -1).
type OutOfRangeError struct {
	Axis   int
	Index  int
	Lo, Hi int
}

func (e *OutOfRangeError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("node tag %d outside [0,%d]", e.Index, TagFull)
	}
	return fmt.Sprintf("index %d on axis %d outside memory box [%d,%d)", e.Index, e.Axis, e.Lo, e.Hi)
}
