package judge

// Algorithm is the tie-break policy used when more than one unjudged note
// in a lane could absorb a key press. The set is closed, so this is a plain
// tag dispatched by switch rather than an interface.
type Algorithm uint8

const (
	// AlgorithmCombo switches to the newer note once the tracked one can
	// no longer score a GOOD, preserving combo.
	AlgorithmCombo Algorithm = iota
	// AlgorithmDuration switches to whichever note is strictly closer to
	// the press time.
	AlgorithmDuration
	// AlgorithmLowest never abandons the earliest note.
	AlgorithmLowest
	// AlgorithmScore is Combo keyed on the GREAT window, trading combo
	// for EX score.
	AlgorithmScore
)

// Compare decides whether the tracked note t1 should be abandoned for the
// candidate t2, given a press at pressTime. t2State is zero while t2 is
// unjudged. Boundary behaviour is exact: equality at the late edge keeps t1,
// equal distances keep t1.
func (a Algorithm) Compare(t1Time, t2Time int64, t2State int32, pressTime int64, table WindowTable) bool {
	switch a {
	case AlgorithmCombo:
		return t2State == 0 &&
			t1Time < pressTime+table[Good][0] &&
			t2Time <= pressTime+table[Good][1]
	case AlgorithmDuration:
		return abs64(t1Time-pressTime) > abs64(t2Time-pressTime) && t2State == 0
	case AlgorithmScore:
		return t2State == 0 &&
			t1Time < pressTime+table[Great][0] &&
			t2Time <= pressTime+table[Great][1]
	}
	// Lowest
	return false
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmCombo:
		return "combo"
	case AlgorithmDuration:
		return "duration"
	case AlgorithmLowest:
		return "lowest"
	case AlgorithmScore:
		return "score"
	}
	return "unknown"
}
