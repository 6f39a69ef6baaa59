package judge

import (
	"math"
	"testing"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/gauge"
)

// managerHarness drives a Manager the way the play loop does: one Update
// per tick, with held keys remembered between calls.
type managerHarness struct {
	m     *Manager
	notes []game.Note
	gg    *gauge.Groove
	keys  []bool
}

func newHarness(mode game.PlayMode, lnType game.LnType, autoplay bool, notes []game.Note) *managerHarness {
	cfg := &Config{
		Notes:             notes,
		PlayMode:          mode,
		LnType:            lnType,
		JudgeRank:         3,
		RankType:          BmsRank,
		WindowRate:        [3]int32{100, 100, 100},
		ScratchWindowRate: [3]int32{100, 100, 100},
		Algorithm:         AlgorithmCombo,
		Autoplay:          autoplay,
		Property:          ForMode(mode),
	}
	m := NewManager(cfg)
	return &managerHarness{
		m:     m,
		notes: notes,
		gg:    gauge.NewGroove(gauge.ForMode(mode), gauge.Normal, 250, len(notes)),
		keys:  make([]bool, game.NewLaneProperty(mode).PhysicalKeyCount()),
	}
}

func (h *managerHarness) tick(at int64) []Event {
	changed := make([]int64, len(h.keys))
	for i := range changed {
		changed[i] = game.NotSet
	}
	return h.m.Update(at, h.notes, h.keys, changed, h.gg)
}

func (h *managerHarness) key(at int64, key int, pressed bool) []Event {
	h.keys[key] = pressed
	changed := make([]int64, len(h.keys))
	for i := range changed {
		changed[i] = game.NotSet
	}
	changed[key] = at
	return h.m.Update(at, h.notes, h.keys, changed, h.gg)
}

func (h *managerHarness) run(from, to, step int64) []Event {
	var events []Event
	for at := from; at <= to; at += step {
		events = append(events, h.tick(at)...)
	}
	return events
}

func judgeEvents(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == EventJudge {
			out = append(out, e)
		}
	}
	return out
}

func TestManagerAutoplayAllPGreat(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 1000000, PairIndex: game.NoPair},
		{Lane: 1, Type: game.NoteNormal, Time: 1500000, PairIndex: game.NoPair},
		{Lane: 2, Type: game.NoteNormal, Time: 2000000, PairIndex: game.NoPair},
		{Lane: 3, Type: game.NoteNormal, Time: 2500000, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, true, notes)
	h.run(0, 3000000, 100000)

	score := h.m.Score()
	if score.JudgeCount(PGreat) != 4 {
		t.Logf("PGREAT count = %v, expected 4", score.JudgeCount(PGreat))
		t.Fail()
	}
	if score.TotalJudgeCount() != int32(len(notes)) {
		t.Logf("total judgements = %v, expected %v", score.TotalJudgeCount(), len(notes))
		t.Fail()
	}
	if h.m.MaxCombo() != int32(len(notes)) {
		t.Logf("max combo = %v, expected %v", h.m.MaxCombo(), len(notes))
		t.Fail()
	}
	for i, g := range h.m.Ghost() {
		if g != PGreat {
			t.Logf("ghost[%v] = %v, expected PGREAT", i, g)
			t.Fail()
		}
	}
	if !h.gg.IsQualified() {
		t.Logf("gauge %.1f not qualified after a perfect autoplay", h.gg.Value())
		t.Fail()
	}
}

func TestManagerPrimingKeepsNoteAtTimeZero(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 0, PairIndex: game.NoPair},
		{Lane: 1, Type: game.NoteNormal, Time: 500000, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, true, notes)
	h.tick(-1)
	h.run(0, 1500000, 100000)

	score := h.m.Score()
	if score.JudgeCount(PGreat) != 2 || score.JudgeCount(Poor) != 0 {
		t.Logf("PGREAT = %v, POOR = %v, expected a full 2/0",
			score.JudgeCount(PGreat), score.JudgeCount(Poor))
		t.Fail()
	}
	for i, g := range h.m.Ghost() {
		if g != PGreat {
			t.Logf("ghost[%v] = %v, expected PGREAT", i, g)
			t.Fail()
		}
	}
}

func TestManagerPressJudgesOnce(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 1000000, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)

	events := judgeEvents(h.key(1000000, 0, true))
	if len(events) != 1 || events[0].Tier != PGreat {
		t.Logf("press events = %v, expected one PGREAT", events)
		t.FailNow()
	}
	if h.m.NoteState(0) != int32(PGreat)+1 {
		t.Logf("note state = %v, expected %v", h.m.NoteState(0), PGreat+1)
		t.Fail()
	}

	h.key(1050000, 0, false)

	// A second press inside the empty poor bound hits the judged note
	// again but must not change its state or pass count.
	events = judgeEvents(h.key(1100000, 0, true))
	if len(events) != 1 || events[0].Tier != Miss {
		t.Logf("re-press events = %v, expected one MISS", events)
		t.Fail()
	}
	if h.m.NoteState(0) != int32(PGreat)+1 {
		t.Logf("note state changed to %v after re-press", h.m.NoteState(0))
		t.Fail()
	}
	if h.m.PassNotes() != 1 {
		t.Logf("pass notes = %v, expected 1", h.m.PassNotes())
		t.Fail()
	}
	if h.m.Score().JudgeCount(Miss) != 1 {
		t.Logf("MISS count = %v, expected 1", h.m.Score().JudgeCount(Miss))
		t.Fail()
	}
}

func TestManagerMissAfterWindow(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 1000000, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.run(0, 2000000, 100000)

	score := h.m.Score()
	if score.JudgeCount(Poor) != 1 {
		t.Logf("POOR count = %v, expected 1", score.JudgeCount(Poor))
		t.Fail()
	}
	if score.JudgeCountLate(Poor) != 1 {
		t.Logf("the miss POOR should count as late")
		t.Fail()
	}
	if score.TotalJudgeCount() != 1 {
		t.Logf("total judgements = %v, expected 1", score.TotalJudgeCount())
		t.Fail()
	}
	if h.m.Combo() != 0 {
		t.Logf("combo = %v after a miss", h.m.Combo())
		t.Fail()
	}

	final := h.m.FinalScore()
	if final.MinBP != 1 {
		t.Logf("minbp = %v, expected 1", final.MinBP)
		t.Fail()
	}
	// POOR tiers never enter the recent ring, so the average keeps its
	// sentinel.
	if final.AvgJudge != math.MaxInt64 {
		t.Logf("avgjudge = %v, expected the sentinel", final.AvgJudge)
		t.Fail()
	}
}

func TestManagerPureLongNote(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteLong, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 0, Type: game.NoteLong, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)

	// The head press is deferred; no judgement yet.
	if events := judgeEvents(h.key(1000000, 0, true)); len(events) != 0 {
		t.Logf("head press emitted %v, expected no judgement", events)
		t.Fail()
	}
	if !h.m.ProcessingLn(0) {
		t.Log("lane should be holding the long note")
		t.Fail()
	}
	h.tick(1500000)

	// Release on the end time judges the whole note once, on the head.
	events := judgeEvents(h.key(2000000, 0, false))
	if len(events) != 1 || events[0].Tier != PGreat || events[0].NoteIndex != 0 {
		t.Logf("release events = %v, expected one PGREAT on the head", events)
		t.Fail()
	}
	if h.m.ProcessingLn(0) {
		t.Log("lane still holding after release")
		t.Fail()
	}
	if h.m.PassNotes() != 1 {
		t.Logf("pass notes = %v, expected 1", h.m.PassNotes())
		t.Fail()
	}
}

func TestManagerChargeNoteEarlyRelease(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteCharge, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 0, Type: game.NoteCharge, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)

	// Charge note heads are judged on the press.
	events := judgeEvents(h.key(1000000, 0, true))
	if len(events) != 1 || events[0].Tier != PGreat || events[0].NoteIndex != 0 {
		t.Logf("head events = %v, expected one PGREAT on the head", events)
		t.Fail()
	}

	// Letting go 500ms early is outside every end window; the release
	// margin is zero, so the drop lands in the same tick.
	events = judgeEvents(h.key(1500000, 0, false))
	if len(events) != 1 || events[0].Tier != Poor || events[0].NoteIndex != 1 {
		t.Logf("early release events = %v, expected one POOR on the end", events)
		t.Fail()
	}
	if h.m.Combo() != 0 {
		t.Logf("combo = %v after dropping a charge note", h.m.Combo())
		t.Fail()
	}
}

func TestManagerChargeNoteHeld(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteCharge, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 0, Type: game.NoteCharge, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)
	h.key(1000000, 0, true)
	h.tick(1500000)

	events := judgeEvents(h.key(2000000, 0, false))
	if len(events) != 1 || events[0].Tier != PGreat || events[0].NoteIndex != 1 {
		t.Logf("end events = %v, expected one PGREAT on the end", events)
		t.Fail()
	}
	if h.m.Combo() != 2 {
		t.Logf("combo = %v, expected 2", h.m.Combo())
		t.Fail()
	}
}

func TestManagerBackspinScratch(t *testing.T) {
	// A charge note on the Beat7K scratch lane: started with one physical
	// key, ended by hitting the other.
	notes := []game.Note{
		{Lane: 7, Type: game.NoteCharge, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 7, Type: game.NoteCharge, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)

	h.key(1000000, 7, true)
	if !h.m.ProcessingLn(7) {
		t.Log("scratch lane should be holding the backspin")
		t.FailNow()
	}

	events := judgeEvents(h.key(2000000, 8, true))
	if len(events) != 1 || events[0].Tier != PGreat || events[0].NoteIndex != 1 {
		t.Logf("backspin end events = %v, expected one PGREAT on the end", events)
		t.Fail()
	}
	if h.m.ProcessingLn(7) {
		t.Log("scratch lane still holding after the backspin end")
		t.Fail()
	}
}

func TestManagerBackspinSameKeyReleaseGuard(t *testing.T) {
	notes := []game.Note{
		{Lane: 7, Type: game.NoteCharge, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 7, Type: game.NoteCharge, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)
	h.key(1000000, 7, true)

	// Releasing the starting key inside the BAD window is blocked by the
	// scratch key guard, so the hold survives.
	if events := judgeEvents(h.key(1900000, 7, false)); len(events) != 0 {
		t.Logf("guarded release emitted %v", events)
		t.Fail()
	}
	if !h.m.ProcessingLn(7) {
		t.Log("hold was dropped by a guarded release")
		t.Fail()
	}
}

func TestManagerHellChargeGaugeTicks(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteHellCharge, Time: 1000000, TimeEnd: 3000000, PairIndex: 1},
		{Lane: 0, Type: game.NoteHellCharge, Time: 3000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, true, notes)
	events := h.run(0, 3500000, 100000)

	increases := 0
	for _, e := range events {
		if e.Kind == EventHcnGauge && e.Increase {
			increases++
		}
	}
	if increases < 8 {
		t.Logf("hell charge gauge ticked %v times over a 2s hold, expected at least 8", increases)
		t.Fail()
	}
	if h.m.Score().JudgeCount(PGreat) != 2 {
		t.Logf("PGREAT count = %v, expected head and end", h.m.Score().JudgeCount(PGreat))
		t.Fail()
	}
}

func TestManagerMineDamage(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteMine, Time: 1000000, Damage: 30, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)
	h.key(500000, 0, true)

	var damage int32
	for _, e := range h.run(600000, 1500000, 100000) {
		if e.Kind == EventMineDamage {
			damage += e.Damage
		}
	}
	if damage != 30 {
		t.Logf("mine damage = %v, expected 30", damage)
		t.Fail()
	}
	if h.m.Score().TotalJudgeCount() != 0 {
		t.Log("mines must not be judged")
		t.Fail()
	}
}

func TestManagerMissOneSkipsJudgedNotes(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 1000000, PairIndex: game.NoPair},
	}
	h := newHarness(game.PopN9K, game.LnLongNote, false, notes)
	h.tick(0)

	h.key(1000000, 0, true)
	h.key(1050000, 0, false)

	// 150ms late is outside GOOD; under MissCondition One the judged note
	// is skipped instead of producing an empty poor.
	events := judgeEvents(h.key(1150000, 0, true))
	if len(events) != 0 {
		t.Logf("re-press events = %v, expected none", events)
		t.Fail()
	}
	if h.m.Score().JudgeCount(Miss) != 0 {
		t.Logf("MISS count = %v, expected 0", h.m.Score().JudgeCount(Miss))
		t.Fail()
	}
}

func TestManagerComboAlgorithmPrefersUnjudgedLater(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteNormal, Time: 1000000, PairIndex: game.NoPair},
		{Lane: 0, Type: game.NoteNormal, Time: 1100000, PairIndex: game.NoPair},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.tick(0)

	// First press takes the first note.
	events := judgeEvents(h.key(1000000, 0, true))
	if len(events) != 1 || events[0].NoteIndex != 0 {
		t.Logf("first press events = %v, expected note 0", events)
		t.Fail()
	}
	h.key(1020000, 0, false)

	// Second press must move on to the unjudged second note.
	events = judgeEvents(h.key(1100000, 0, true))
	if len(events) != 1 || events[0].NoteIndex != 1 || events[0].Tier != PGreat {
		t.Logf("second press events = %v, expected PGREAT on note 1", events)
		t.Fail()
	}
	if h.m.Combo() != 2 {
		t.Logf("combo = %v, expected 2", h.m.Combo())
		t.Fail()
	}
}

func TestManagerLongNoteHeadMissTakesTail(t *testing.T) {
	notes := []game.Note{
		{Lane: 0, Type: game.NoteCharge, Time: 1000000, TimeEnd: 2000000, PairIndex: 1},
		{Lane: 0, Type: game.NoteCharge, Time: 2000000, PairIndex: 0},
	}
	h := newHarness(game.Beat7K, game.LnLongNote, false, notes)
	h.run(0, 3000000, 100000)

	score := h.m.Score()
	if score.JudgeCount(Poor) != 2 {
		t.Logf("POOR count = %v, expected head and tail", score.JudgeCount(Poor))
		t.Fail()
	}
	if h.m.PassNotes() != 2 {
		t.Logf("pass notes = %v, expected 2", h.m.PassNotes())
		t.Fail()
	}
}
