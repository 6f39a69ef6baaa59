package game

// NotSet is the key changed-time sentinel for "unchanged this frame".
const NotSet = -1 << 63

// LaneProperty maps between physical input keys and logical lanes for one
// play mode. Scratch lanes own two physical keys (up and down spin), every
// other lane owns one.
type LaneProperty struct {
	keyToLane      []int
	laneToKeys     [][]int
	laneToScratch  []int
	scratchToKeys  [][2]int
	laneSkinOffset []int
	lanePlayer     []int
}

func NewLaneProperty(mode PlayMode) *LaneProperty {
	switch mode {
	case Beat5K:
		return &LaneProperty{
			keyToLane:      []int{0, 1, 2, 3, 4, 5, 5},
			laneToKeys:     [][]int{{0}, {1}, {2}, {3}, {4}, {5, 6}},
			laneToScratch:  []int{-1, -1, -1, -1, -1, 0},
			scratchToKeys:  [][2]int{{5, 6}},
			laneSkinOffset: []int{1, 2, 3, 4, 5, 0},
			lanePlayer:     make([]int, 6),
		}
	case Beat7K:
		return &LaneProperty{
			keyToLane:      []int{0, 1, 2, 3, 4, 5, 6, 7, 7},
			laneToKeys:     [][]int{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7, 8}},
			laneToScratch:  []int{-1, -1, -1, -1, -1, -1, -1, 0},
			scratchToKeys:  [][2]int{{7, 8}},
			laneSkinOffset: []int{1, 2, 3, 4, 5, 6, 7, 0},
			lanePlayer:     make([]int, 8),
		}
	case Beat10K:
		return &LaneProperty{
			keyToLane: []int{0, 1, 2, 3, 4, 5, 5, 6, 7, 8, 9, 10, 11, 11},
			laneToKeys: [][]int{
				{0}, {1}, {2}, {3}, {4}, {5, 6},
				{7}, {8}, {9}, {10}, {11}, {12, 13},
			},
			laneToScratch:  []int{-1, -1, -1, -1, -1, 0, -1, -1, -1, -1, -1, 1},
			scratchToKeys:  [][2]int{{5, 6}, {12, 13}},
			laneSkinOffset: []int{1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 0},
			lanePlayer:     []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1},
		}
	case Beat14K:
		return &LaneProperty{
			keyToLane: []int{0, 1, 2, 3, 4, 5, 6, 7, 7, 8, 9, 10, 11, 12, 13, 14, 15, 15},
			laneToKeys: [][]int{
				{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7, 8},
				{9}, {10}, {11}, {12}, {13}, {14}, {15}, {16, 17},
			},
			laneToScratch:  []int{-1, -1, -1, -1, -1, -1, -1, 0, -1, -1, -1, -1, -1, -1, -1, 1},
			scratchToKeys:  [][2]int{{7, 8}, {16, 17}},
			laneSkinOffset: []int{1, 2, 3, 4, 5, 6, 7, 0, 1, 2, 3, 4, 5, 6, 7, 0},
			lanePlayer:     []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
		}
	}
	// The remaining modes have no scratch and map keys 1:1.
	n := mode.LaneCount()
	p := &LaneProperty{
		keyToLane:      make([]int, n),
		laneToKeys:     make([][]int, n),
		laneToScratch:  make([]int, n),
		laneSkinOffset: make([]int, n),
		lanePlayer:     make([]int, n),
	}
	half := n
	if mode == Keyboard24KDouble {
		half = n / 2
	}
	for i := 0; i < n; i++ {
		p.keyToLane[i] = i
		p.laneToKeys[i] = []int{i}
		p.laneToScratch[i] = -1
		p.laneSkinOffset[i] = i%half + 1
		p.lanePlayer[i] = i / half
	}
	return p
}

func (p *LaneProperty) PhysicalKeyCount() int {
	return len(p.keyToLane)
}

func (p *LaneProperty) LaneCount() int {
	return len(p.laneToKeys)
}

func (p *LaneProperty) KeyToLane(key int) int {
	return p.keyToLane[key]
}

func (p *LaneProperty) LaneToKeys(lane int) []int {
	return p.laneToKeys[lane]
}

// ScratchIndex returns the scratch controller index of a lane, or -1 when
// the lane is not a scratch.
func (p *LaneProperty) ScratchIndex(lane int) int {
	return p.laneToScratch[lane]
}

func (p *LaneProperty) ScratchCount() int {
	return len(p.scratchToKeys)
}

func (p *LaneProperty) ScratchKeys(scratch int) [2]int {
	return p.scratchToKeys[scratch]
}

// LaneSkinOffset is the per-player skin slot of a lane, 0 for scratch.
func (p *LaneProperty) LaneSkinOffset(lane int) int {
	return p.laneSkinOffset[lane]
}

func (p *LaneProperty) LanePlayer(lane int) int {
	return p.lanePlayer[lane]
}
