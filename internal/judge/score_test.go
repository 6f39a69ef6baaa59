package judge

import (
	"math"
	"testing"
)

func TestScoreDataDefaults(t *testing.T) {
	d := NewScoreData()
	if d.MinBP != math.MaxInt32 {
		t.Logf("MinBP = %v, expected MaxInt32", d.MinBP)
		t.Fail()
	}
	if d.AvgJudge != math.MaxInt64 {
		t.Logf("AvgJudge = %v, expected MaxInt64", d.AvgJudge)
		t.Fail()
	}
	if d.TotalJudgeCount() != 0 {
		t.Logf("fresh score has %v judgements", d.TotalJudgeCount())
		t.Fail()
	}
}

func TestScoreDataExScore(t *testing.T) {
	d := NewScoreData()
	d.Epg, d.Lpg = 100, 50
	d.Egr, d.Lgr = 30, 20
	if got := d.ExScore(); got != 350 {
		t.Logf("ExScore = %v, expected 350", got)
		t.Fail()
	}
}

func TestScoreDataAddJudgeCount(t *testing.T) {
	d := NewScoreData()
	d.AddJudgeCount(PGreat, true, 2)
	d.AddJudgeCount(PGreat, false, 1)
	d.AddJudgeCount(Good, false, 3)
	d.AddJudgeCount(Miss, true, 1)
	// Invalid tiers are dropped.
	d.AddJudgeCount(-1, true, 1)
	d.AddJudgeCount(6, true, 1)

	if d.JudgeCount(PGreat) != 3 {
		t.Logf("PGREAT count = %v, expected 3", d.JudgeCount(PGreat))
		t.Fail()
	}
	if d.JudgeCountEarly(PGreat) != 2 || d.JudgeCountLate(PGreat) != 1 {
		t.Logf("PGREAT early/late = %v/%v, expected 2/1",
			d.JudgeCountEarly(PGreat), d.JudgeCountLate(PGreat))
		t.Fail()
	}
	if d.JudgeCount(Good) != 3 {
		t.Logf("GOOD count = %v, expected 3", d.JudgeCount(Good))
		t.Fail()
	}
	if d.JudgeCount(Miss) != 1 {
		t.Logf("MISS count = %v, expected 1", d.JudgeCount(Miss))
		t.Fail()
	}
	if d.TotalJudgeCount() != 7 {
		t.Logf("total = %v, expected 7", d.TotalJudgeCount())
		t.Fail()
	}
}

func TestScoreDataBadPoorCount(t *testing.T) {
	d := NewScoreData()
	d.AddJudgeCount(Bad, true, 2)
	d.AddJudgeCount(Poor, false, 3)
	d.AddJudgeCount(Miss, true, 4)
	d.AddJudgeCount(PGreat, true, 10)
	if got := d.BadPoorCount(); got != 9 {
		t.Logf("BadPoorCount = %v, expected 9", got)
		t.Fail()
	}
}
