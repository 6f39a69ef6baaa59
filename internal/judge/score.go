package judge

import "math"

// ScoreData accumulates the judgements of one play session. Counters are
// purely additive and split into early/late halves per tier; only the
// Manager writes them.
type ScoreData struct {
	Epg, Lpg int32
	Egr, Lgr int32
	Egd, Lgd int32
	Ebd, Lbd int32
	Epr, Lpr int32
	Ems, Lms int32

	MaxCombo  int32
	Notes     int32 // total playable notes in the chart
	PassNotes int32
	MinBP     int32 // best bad+poor count, MaxInt32 until set
	AvgJudge  int64 // µs, MaxInt64 until set
}

func NewScoreData() *ScoreData {
	return &ScoreData{
		MinBP:    math.MaxInt32,
		AvgJudge: math.MaxInt64,
	}
}

// ExScore is PGREAT*2 + GREAT, the primary ranking metric.
func (d *ScoreData) ExScore() int32 {
	return (d.Epg+d.Lpg)*2 + d.Egr + d.Lgr
}

func (d *ScoreData) JudgeCount(tier int) int32 {
	return d.JudgeCountEarly(tier) + d.JudgeCountLate(tier)
}

func (d *ScoreData) JudgeCountEarly(tier int) int32 {
	switch tier {
	case PGreat:
		return d.Epg
	case Great:
		return d.Egr
	case Good:
		return d.Egd
	case Bad:
		return d.Ebd
	case Poor:
		return d.Epr
	case Miss:
		return d.Ems
	}
	return 0
}

func (d *ScoreData) JudgeCountLate(tier int) int32 {
	switch tier {
	case PGreat:
		return d.Lpg
	case Great:
		return d.Lgr
	case Good:
		return d.Lgd
	case Bad:
		return d.Lbd
	case Poor:
		return d.Lpr
	case Miss:
		return d.Lms
	}
	return 0
}

// AddJudgeCount is a no-op for tier indices outside 0..5.
func (d *ScoreData) AddJudgeCount(tier int, early bool, n int32) {
	var field *int32
	switch tier {
	case PGreat:
		field = pick(early, &d.Epg, &d.Lpg)
	case Great:
		field = pick(early, &d.Egr, &d.Lgr)
	case Good:
		field = pick(early, &d.Egd, &d.Lgd)
	case Bad:
		field = pick(early, &d.Ebd, &d.Lbd)
	case Poor:
		field = pick(early, &d.Epr, &d.Lpr)
	case Miss:
		field = pick(early, &d.Ems, &d.Lms)
	default:
		return
	}
	*field += n
}

func pick(early bool, e, l *int32) *int32 {
	if early {
		return e
	}
	return l
}

func (d *ScoreData) TotalJudgeCount() int32 {
	return d.Epg + d.Lpg + d.Egr + d.Lgr + d.Egd + d.Lgd +
		d.Ebd + d.Lbd + d.Epr + d.Lpr + d.Ems + d.Lms
}

// BadPoorCount feeds the minbp statistic.
func (d *ScoreData) BadPoorCount() int32 {
	return d.Ebd + d.Lbd + d.Epr + d.Lpr + d.Ems + d.Lms
}
