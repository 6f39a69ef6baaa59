package rule

import "git.lost.host/meutraa/eotb/internal/gauge"

// ClearType grades the outcome of a play, ordered worst to best. The
// numeric values are stable storage ids.
type ClearType uint8

const (
	NoPlay ClearType = iota
	Failed
	AssistEasyClear
	LightAssistEasyClear
	EasyClear
	NormalClear
	HardClear
	ExHardClear
	FullCombo
	Perfect
	Max
)

// ClearTypeFromID returns NoPlay for ids outside the stored range.
func ClearTypeFromID(id uint8) ClearType {
	if id > uint8(Max) {
		return NoPlay
	}
	return ClearType(id)
}

// ClearTypeForGauge maps a cleared gauge type to the clear grade it earns.
func ClearTypeForGauge(t gauge.Type) ClearType {
	switch t {
	case gauge.AssistEasy:
		return LightAssistEasyClear
	case gauge.Easy:
		return EasyClear
	case gauge.Normal, gauge.Class:
		return NormalClear
	case gauge.Hard, gauge.ExClass:
		return HardClear
	case gauge.ExHard, gauge.ExHardClass:
		return ExHardClear
	case gauge.Hazard:
		return FullCombo
	}
	return NoPlay
}

func (c ClearType) String() string {
	switch c {
	case NoPlay:
		return "NO PLAY"
	case Failed:
		return "FAILED"
	case AssistEasyClear:
		return "ASSIST EASY"
	case LightAssistEasyClear:
		return "LIGHT ASSIST EASY"
	case EasyClear:
		return "EASY"
	case NormalClear:
		return "CLEAR"
	case HardClear:
		return "HARD"
	case ExHardClear:
		return "EX-HARD"
	case FullCombo:
		return "FULL COMBO"
	case Perfect:
		return "PERFECT"
	case Max:
		return "MAX"
	}
	return "UNKNOWN"
}
