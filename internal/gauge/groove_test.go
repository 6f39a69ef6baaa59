package gauge

import "testing"

func TestGaugeUpdate(t *testing.T) {
	// #TOTAL equal to the note count makes every PGREAT worth exactly 1.
	g := NewGauge(SevenKeys().Element(Normal), 250, 250)
	if g.Value() != 20 {
		t.Logf("initial value = %v, expected 20", g.Value())
		t.Fail()
	}
	g.Update(0, 1.0)
	if g.Value() != 21 {
		t.Logf("value after PGREAT = %v, expected 21", g.Value())
		t.Fail()
	}
	g.Update(3, 1.0)
	if g.Value() != 18 {
		t.Logf("value after BAD = %v, expected 18", g.Value())
		t.Fail()
	}
	g.Update(2, 0.5)
	if !almostEqual(g.Value(), 18.25) {
		t.Logf("value after half-rate GOOD = %v, expected 18.25", g.Value())
		t.Fail()
	}
}

func TestGaugeClampAndFloor(t *testing.T) {
	g := NewGauge(SevenKeys().Element(Normal), 250, 250)
	g.SetValue(99.5)
	g.Update(0, 1.0)
	if !g.IsMax() {
		t.Logf("value = %v, expected the 100 cap", g.Value())
		t.Fail()
	}
	g.SetValue(1)
	if g.Value() != 2 {
		t.Logf("value = %v, expected the 2 floor", g.Value())
		t.Fail()
	}
}

func TestGaugeDeadStaysDead(t *testing.T) {
	g := NewGauge(SevenKeys().Element(Hard), 250, 250)
	g.SetValue(2)
	g.Update(3, 1.0) // BAD, -5 at 40% under the 10 threshold
	if !g.IsDead() {
		t.Logf("value = %v, expected dead", g.Value())
		t.Fail()
	}
	g.SetValue(50)
	if !g.IsDead() {
		t.Log("a dead gauge must not recover")
		t.Fail()
	}
	if g.IsQualified() {
		t.Log("a dead gauge must not qualify")
		t.Fail()
	}
}

func TestGaugeGutsReducesDamage(t *testing.T) {
	g := NewGauge(SevenKeys().Element(Hard), 250, 250)
	g.SetValue(5)
	g.Update(3, 1.0) // BAD, -5 at 40% under the 10 threshold
	if g.Value() != 3 {
		t.Logf("value = %v, expected 3", g.Value())
		t.Fail()
	}
	g.SetValue(45)
	g.Update(3, 1.0) // -5 at 80% under the 50 threshold
	if g.Value() != 41 {
		t.Logf("value = %v, expected 41", g.Value())
		t.Fail()
	}
}

func TestGaugeLr2DeathThreshold(t *testing.T) {
	g := NewGauge(Lr2().Element(Hard), 250, 250)
	g.SetValue(1.5)
	if !g.IsDead() {
		t.Logf("value = %v, expected death below 2", g.Value())
		t.Fail()
	}
}

func TestGrooveUpdatesEveryCurve(t *testing.T) {
	gg := NewGroove(SevenKeys(), Normal, 250, 250)
	gg.Update(0)
	if gg.Value() != 21 {
		t.Logf("normal value = %v, expected 21", gg.Value())
		t.Fail()
	}
	if !almostEqual(gg.ValueOf(Hard), 100) {
		t.Logf("hard value = %v, expected the 100 cap", gg.ValueOf(Hard))
		t.Fail()
	}
	if !almostEqual(gg.ValueOf(Easy), 21) {
		t.Logf("easy value = %v, expected 21", gg.ValueOf(Easy))
		t.Fail()
	}
}

func TestGrooveQualify(t *testing.T) {
	gg := NewGroove(SevenKeys(), Normal, 250, 250)
	if gg.IsQualified() {
		t.Log("fresh normal gauge must not qualify")
		t.Fail()
	}
	gg.SetValueOf(Normal, 80)
	if !gg.IsQualified() {
		t.Logf("normal gauge at %v should qualify", gg.Value())
		t.Fail()
	}
}

func TestGrooveTypeChange(t *testing.T) {
	gg := NewGroove(SevenKeys(), Hard, 250, 250)
	if gg.IsTypeChanged() {
		t.Fail()
	}
	// Dropping from hard to easy mid-play marks the clear as downgraded.
	gg.SetActiveType(Easy)
	if !gg.IsTypeChanged() {
		t.Fail()
	}
	if gg.ActiveType() != Easy {
		t.Logf("active type = %v, expected easy", gg.ActiveType())
		t.Fail()
	}
}
