package judge

// Tier indices. The first five index into a window table; Miss is the
// "empty poor" handed out for hitting an already judged note.
const (
	PGreat = iota
	Great
	Good
	Bad
	Poor
	Miss
)

var tierNames = [...]string{"PGREAT", "GREAT", "GOOD", "BAD", "POOR", "MISS"}

func TierName(tier int) string {
	if tier < 0 || tier >= len(tierNames) {
		return "NONE"
	}
	return tierNames[tier]
}

// Window is a [late, early] µs pair, late <= 0 <= early.
type Window [2]int64

// WindowTable holds one Window per tier, PGREAT outward. Note tables carry
// five rows (the last being the empty poor bound), long note end tables four.
type WindowTable []Window

// Contains reports whether delta (press time minus note time) falls
// inside the tier's window.
func (w Window) Contains(delta int64) bool {
	return delta >= w[0] && delta <= w[1]
}

// Find returns the narrowest tier containing delta, or -1 when delta is
// outside even the outermost window.
func (t WindowTable) Find(delta int64) int {
	for i, w := range t {
		if w.Contains(delta) {
			return i
		}
	}
	return -1
}

// RankType is the encoding of a chart's declared judge rank.
type RankType uint8

const (
	BmsRank      RankType = iota // #RANK, 0-4 difficulty index
	BmsDefExRank                 // #DEFEXRANK, percentage of the ruleset default
	BmsonJudgeRank
)

// WindowRule selects how base windows scale with the resolved judge rank.
type WindowRule uint8

const (
	RuleNormal WindowRule = iota
	RulePms
	RuleLr2
)

// Scaling factors per declared difficulty: VERYHARD, HARD, NORMAL, EASY, VERYEASY.
var (
	normalJudgeRank = [5]int32{25, 50, 75, 100, 125}
	pmsJudgeRank    = [5]int32{33, 50, 70, 100, 133}
	lr2JudgeRank    = [5]int32{25, 50, 75, 100, 75}
)

// Whether each tier's window is fixed regardless of judge rank.
var (
	normalFixJudge = [5]bool{false, false, false, false, true}
	pmsFixJudge    = [5]bool{true, false, false, true, true}
	lr2FixJudge    = [5]bool{false, false, false, true, true}
)

func (r WindowRule) rankFactors() [5]int32 {
	switch r {
	case RulePms:
		return pmsJudgeRank
	case RuleLr2:
		return lr2JudgeRank
	}
	return normalJudgeRank
}

func (r WindowRule) fixJudge() [5]bool {
	switch r {
	case RulePms:
		return pmsFixJudge
	case RuleLr2:
		return lr2FixJudge
	}
	return normalFixJudge
}

// ResolveJudgeRank converts a chart-declared rank into the effective
// judge rank used to size windows. Chart metadata is untrusted, so every
// out-of-range value degrades to the ruleset default.
func (r WindowRule) ResolveJudgeRank(raw int32, rankType RankType) int32 {
	factors := r.rankFactors()
	switch rankType {
	case BmsRank:
		if raw >= 0 && int(raw) < len(factors) {
			return factors[raw]
		}
		return factors[2]
	case BmsDefExRank:
		if raw > 0 {
			return raw * factors[2] / 100
		}
		return factors[2]
	default: // BmsonJudgeRank
		if raw > 0 {
			return raw
		}
		return 100
	}
}

// Create scales a base window table by the resolved judge rank and the
// per-player window rate percentages for PG/GR/GD.
func (r WindowRule) Create(org []Window, judgeRank int32, windowRate [3]int32) WindowTable {
	if r == RuleLr2 {
		return createLr2(org, judgeRank, windowRate)
	}
	return createNormal(org, judgeRank, windowRate, r.fixJudge())
}

func createNormal(org []Window, judgeRank int32, windowRate [3]int32, fix [5]bool) WindowTable {
	judge := make(WindowTable, len(org))
	for i, w := range org {
		if fix[i] {
			judge[i] = w
		} else {
			judge[i] = Window{w[0] * int64(judgeRank) / 100, w[1] * int64(judgeRank) / 100}
		}
	}

	// Clamp scaled windows between the nearest fixed windows on either side.
	n := min(len(org), 4)
	fixmin := -1
	for i := 0; i < n; i++ {
		if fix[i] {
			fixmin = i
			continue
		}
		fixmax := -1
		for j := i + 1; j < 4; j++ {
			if fix[j] {
				fixmax = j
				break
			}
		}
		for j := 0; j < 2; j++ {
			if fixmin >= 0 && abs64(judge[i][j]) < abs64(judge[fixmin][j]) {
				judge[i][j] = judge[fixmin][j]
			}
			if fixmax >= 0 && abs64(judge[i][j]) > abs64(judge[fixmax][j]) {
				judge[i][j] = judge[fixmax][j]
			}
		}
	}

	applyWindowRate(judge, len(org), windowRate)
	return judge
}

func createLr2(org []Window, judgeRank int32, windowRate [3]int32) WindowTable {
	judge := make(WindowTable, len(org))
	copy(judge, org)

	fixMax := min(3, len(judge))
	for i := 0; i < fixMax; i++ {
		for j := 0; j < 2; j++ {
			judge[i][j] = lr2JudgeScaling(org[i][j], judgeRank)
		}
	}

	// Inner windows must not exceed the next one out.
	for i := fixMax - 1; i >= 0; i-- {
		if i+1 < len(judge) {
			for j := 0; j < 2; j++ {
				if abs64(judge[i][j]) > abs64(judge[i+1][j]) {
					judge[i][j] = judge[i+1][j]
				}
			}
		}
	}

	applyWindowRate(judge, len(org), windowRate)
	return judge
}

func applyWindowRate(judge WindowTable, orgLen int, windowRate [3]int32) {
	n := min(orgLen, 3)
	for i := 0; i < n; i++ {
		for j := 0; j < 2; j++ {
			judge[i][j] = judge[i][j] * int64(windowRate[i]) / 100
			if len(judge) > 3 && abs64(judge[i][j]) > abs64(judge[3][j]) {
				judge[i][j] = judge[3][j]
			}
			if i > 0 && abs64(judge[i][j]) < abs64(judge[i-1][j]) {
				judge[i][j] = judge[i-1][j]
			}
		}
	}
}

// LR2 scaling reference points at judge rank 0, 25, 50, 75, 100.
// Rows: zero baseline, then the PGREAT, GREAT and GOOD curves.
var lr2Scaling = [4][5]int64{
	{0, 0, 0, 0, 0},
	{0, 8000, 15000, 18000, 21000},
	{0, 24000, 30000, 40000, 60000},
	{0, 40000, 60000, 100000, 120000},
}

// lr2JudgeScaling reproduces LR2's window sizing in integer arithmetic.
// Linear above rank 100, 2D interpolation over lr2Scaling below.
func lr2JudgeScaling(base int64, judgeRank int32) int64 {
	sign := int64(1)
	absBase := base
	if base < 0 {
		absBase = -base
		sign = -1
	}

	if judgeRank >= 100 {
		return sign * absBase * int64(judgeRank) / 100
	}

	const last = 4
	judgeIndex := int(judgeRank / 25)

	s := 0
	for s < len(lr2Scaling) && absBase >= lr2Scaling[s][last] {
		s++
	}

	var n, d, x1, x2 int64
	if s < len(lr2Scaling) {
		n = absBase - lr2Scaling[s-1][last]
		d = lr2Scaling[s][last] - lr2Scaling[s-1][last]
		x1 = d*lr2Scaling[s-1][judgeIndex] + n*(lr2Scaling[s][judgeIndex]-lr2Scaling[s-1][judgeIndex])
		x2 = d*lr2Scaling[s-1][judgeIndex+1] + n*(lr2Scaling[s][judgeIndex+1]-lr2Scaling[s-1][judgeIndex+1])
	} else {
		n = absBase
		d = lr2Scaling[s-1][last]
		x1 = n * lr2Scaling[s-1][judgeIndex]
		x2 = n * lr2Scaling[s-1][judgeIndex+1]
	}

	return sign * (x1 + (int64(judgeRank)-int64(judgeIndex)*25)*(x2-x1)/25) / d
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
