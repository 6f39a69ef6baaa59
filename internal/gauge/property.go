package gauge

import (
	"math"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Type indexes the nine gauge curves that run in parallel during a play.
type Type int

const (
	AssistEasy Type = iota
	Easy
	Normal
	Hard
	ExHard
	Hazard
	Class
	ExClass
	ExHardClass

	TypeCount = 9
)

// Course gauges carry over between the songs of a class course.
func (t Type) IsCourseGauge() bool {
	return t == Class || t == ExClass || t == ExHardClass
}

func (t Type) String() string {
	switch t {
	case AssistEasy:
		return "assist-easy"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case ExHard:
		return "ex-hard"
	case Hazard:
		return "hazard"
	case Class:
		return "class"
	case ExClass:
		return "ex-class"
	case ExHardClass:
		return "ex-hard-class"
	}
	return "unknown"
}

// Modifier adjusts a curve's base per-tier deltas for the chart's #TOTAL
// and note count.
type Modifier uint8

const (
	ModifierNone Modifier = iota
	// ModifierTotal scales recovery by total/notes.
	ModifierTotal
	// ModifierLimitIncrement caps recovery when #TOTAL is low.
	ModifierLimitIncrement
	// ModifierDamage raises damage on low #TOTAL or sparse charts.
	ModifierDamage
)

func (m Modifier) Modify(value float32, total float64, notes int) float32 {
	switch m {
	case ModifierTotal:
		if value > 0 {
			return float32(float64(value) * total / float64(notes))
		}
	case ModifierLimitIncrement:
		if value > 0 {
			pg := (2.0*total - 320.0) / float64(notes)
			pg = math.Min(math.Max(pg, 0.0), 0.15)
			return value * float32(pg) / 0.15
		}
	case ModifierDamage:
		if value < 0 {
			fix1 := float32(math.Floor(total/16.0)) - 5.0
			if fix1 < 1 {
				fix1 = 1
			} else if fix1 > 10 {
				fix1 = 10
			}
			fix1 = 10.0 / fix1

			var fix2 float32
			switch n := notes; {
			case n <= 20:
				fix2 = 10.0
			case n < 30:
				fix2 = 8.0 + 0.2*float32(30-n)
			case n < 60:
				fix2 = 5.0 + 0.2*float32(60-n)/3.0
			case n < 125:
				fix2 = 4.0 + float32(125-n)/65.0
			case n < 250:
				fix2 = 3.0 + 0.008*float32(250-n)
			case n < 500:
				fix2 = 2.0 + 0.004*float32(500-n)
			case n < 1000:
				fix2 = 1.0 + 0.002*float32(1000-n)
			default:
				fix2 = 1.0
			}

			if fix1 > fix2 {
				return value * fix1
			}
			return value * fix2
		}
	}
	return value
}

// Guts reduces damage while the gauge value sits below a threshold.
// Entries are checked in order; the first match applies.
type Guts struct {
	Threshold  float32
	Multiplier float32
}

// Element is the configuration of one gauge curve.
type Element struct {
	Modifier Modifier
	Min      float32
	Max      float32
	Init     float32
	Border   float32
	Death    float32    // immediate death below this value
	Values   [6]float32 // per-tier deltas [PG, GR, GD, BD, PR, MS]
	Guts     []Guts
}

// Property holds the nine curve configurations of a play mode family.
type Property struct {
	Elements [TypeCount]Element
}

func (p *Property) Element(t Type) Element {
	return p.Elements[t]
}

// ForMode picks the gauge property matching a play mode's family.
func ForMode(mode game.PlayMode) *Property {
	switch mode {
	case game.Beat5K, game.Beat10K:
		return FiveKeys()
	case game.PopN5K, game.PopN9K:
		return Pms()
	case game.Keyboard24K, game.Keyboard24KDouble:
		return Keyboard()
	}
	return SevenKeys()
}

var hardGuts = []Guts{
	{10.0, 0.4}, {20.0, 0.5}, {30.0, 0.6}, {40.0, 0.7}, {50.0, 0.8},
}

var classGuts = []Guts{
	{5.0, 0.4}, {10.0, 0.5}, {15.0, 0.6}, {20.0, 0.7}, {25.0, 0.8},
}

func FiveKeys() *Property {
	return &Property{Elements: [TypeCount]Element{
		{ModifierTotal, 2, 100, 20, 50, 0, [6]float32{1, 1, 0.5, -1.5, -3, -0.5}, nil},
		{ModifierTotal, 2, 100, 20, 75, 0, [6]float32{1, 1, 0.5, -1.5, -4.5, -1}, nil},
		{ModifierTotal, 2, 100, 20, 75, 0, [6]float32{1, 1, 0.5, -3, -6, -2}, nil},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0, 0, 0, -5, -10, -5}, nil},
		{ModifierDamage, 0, 100, 100, 0, 0, [6]float32{0, 0, 0, -10, -20, -10}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0, 0, 0, -100, -100, -100}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.01, 0.01, 0, -0.5, -1, -0.5}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.01, 0.01, 0, -1, -2, -1}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.01, 0.01, 0, -2.5, -5, -2.5}, nil},
	}}
}

func SevenKeys() *Property {
	return &Property{Elements: [TypeCount]Element{
		{ModifierTotal, 2, 100, 20, 60, 0, [6]float32{1, 1, 0.5, -1.5, -3, -0.5}, nil},
		{ModifierTotal, 2, 100, 20, 80, 0, [6]float32{1, 1, 0.5, -1.5, -4.5, -1}, nil},
		{ModifierTotal, 2, 100, 20, 80, 0, [6]float32{1, 1, 0.5, -3, -6, -2}, nil},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.03, -5, -10, -5}, hardGuts},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -8, -16, -8}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -100, -100, -10}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.06, -1.5, -3, -1.5}, classGuts},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.03, -3, -6, -3}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -5, -10, -5}, nil},
	}}
}

func Pms() *Property {
	return &Property{Elements: [TypeCount]Element{
		{ModifierTotal, 2, 120, 30, 65, 0, [6]float32{1, 1, 0.5, -1, -2, -2}, nil},
		{ModifierTotal, 2, 120, 30, 85, 0, [6]float32{1, 1, 0.5, -1, -3, -3}, nil},
		{ModifierTotal, 2, 120, 30, 85, 0, [6]float32{1, 1, 0.5, -2, -6, -6}, nil},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.03, -5, -10, -10}, hardGuts},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -10, -15, -15}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -100, -100, -100}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.06, -1.5, -3, -3}, classGuts},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.12, 0.03, -3, -6, -6}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.15, 0.06, 0, -5, -10, -10}, nil},
	}}
}

func Keyboard() *Property {
	return &Property{Elements: [TypeCount]Element{
		{ModifierTotal, 2, 100, 30, 50, 0, [6]float32{1, 1, 0.5, -1, -2, -1}, nil},
		{ModifierTotal, 2, 100, 20, 70, 0, [6]float32{1, 1, 0.5, -1, -3, -1}, nil},
		{ModifierTotal, 2, 100, 20, 70, 0, [6]float32{1, 1, 0.5, -2, -4, -2}, nil},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.2, 0.2, 0.1, -4, -8, -4}, hardGuts},
		{ModifierLimitIncrement, 0, 100, 100, 0, 0, [6]float32{0.2, 0.1, 0, -6, -12, -6}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.2, 0.1, 0, -100, -100, -100}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.2, 0.2, 0.1, -1.5, -3, -1.5}, classGuts},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.2, 0.2, 0.1, -3, -6, -3}, nil},
		{ModifierNone, 0, 100, 100, 0, 0, [6]float32{0.2, 0.1, 0, -5, -10, -5}, nil},
	}}
}

var lr2Guts = []Guts{{32.0, 0.6}}

func Lr2() *Property {
	return &Property{Elements: [TypeCount]Element{
		{ModifierTotal, 2, 100, 20, 60, 0, [6]float32{1.2, 1.2, 0.6, -3.2, -4.8, -1.6}, nil},
		{ModifierTotal, 2, 100, 20, 80, 0, [6]float32{1.2, 1.2, 0.6, -3.2, -4.8, -1.6}, nil},
		{ModifierTotal, 2, 100, 20, 80, 0, [6]float32{1, 1, 0.5, -4, -6, -2}, nil},
		{ModifierDamage, 0, 100, 100, 0, 2, [6]float32{0.1, 0.1, 0.05, -6, -10, -2}, lr2Guts},
		{ModifierDamage, 0, 100, 100, 0, 2, [6]float32{0.1, 0.1, 0.05, -12, -20, -2}, nil},
		{ModifierNone, 0, 100, 100, 0, 2, [6]float32{0.15, 0.06, 0, -100, -100, -10}, nil},
		{ModifierNone, 0, 100, 100, 0, 2, [6]float32{0.1, 0.1, 0.05, -2, -3, -2}, lr2Guts},
		{ModifierNone, 0, 100, 100, 0, 2, [6]float32{0.1, 0.1, 0.05, -6, -10, -2}, lr2Guts},
		{ModifierNone, 0, 100, 100, 0, 2, [6]float32{0.1, 0.1, 0.05, -12, -20, -2}, nil},
	}}
}
