package progression

// NodeState is the derived state of one star.
type NodeState struct {
	Unlocked  bool
	Completed bool
}

// Snapshot is the stored progress the gate is derived from.
type Snapshot struct {
	// Completed holds question ids marked completed.
	Completed map[string]bool

	// Latched holds star indices whose unlock has been recorded.
	Latched map[int]bool
}

// GateSnapshot maps star index to its state.
type GateSnapshot map[int]NodeState

// Recompute derives every star's state from snap. A star is completed
// when all of its questions are; it is unlocked when it is the first
// star, when its unlock was latched, or when the previous star is
// completed.
func Recompute(path []Star, snap Snapshot) GateSnapshot {
	out := make(GateSnapshot, len(path))
	prevCompleted := false
	for i, s := range path {
		completed := len(s.Questions) > 0
		for _, q := range s.Questions {
			if !snap.Completed[q.ID] {
				completed = false
				break
			}
		}
		out[s.Index] = NodeState{
			Unlocked:  i == 0 || snap.Latched[s.Index] || prevCompleted,
			Completed: completed,
		}
		prevCompleted = completed
	}
	return out
}

// NewlyUnlocked returns star indices unlocked in after but not in before,
// in path order.
func NewlyUnlocked(path []Star, before, after GateSnapshot) []int {
	var out []int
	for _, s := range path {
		if after[s.Index].Unlocked && !before[s.Index].Unlocked {
			out = append(out, s.Index)
		}
	}
	return out
}

// Skip returns the star after star, or false at the end of the path.
// It only navigates: nothing is recorded.
func Skip(path []Star, star int) (int, bool) {
	for i, s := range path {
		if s.Index == star && i+1 < len(path) {
			return path[i+1].Index, true
		}
	}
	return 0, false
}
