package judge

import (
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/gauge"
)

const (
	// hcnDuration is the hell charge note gauge tick interval.
	hcnDuration = 200_000
	// autoMinDuration is how long autoplay holds a key.
	autoMinDuration = 80_000

	noNote       = -1
	noLnEndJudge = -1
)

// laneState is the per-lane judgment state machine: cursor position,
// active long note, HCN passing, and release timing.
type laneState struct {
	isScratch bool
	cursor    int
	// Note index of the long note end being held, noNote when idle.
	processing int
	// Note index of the hell charge note being passed, noNote when idle.
	passingNote  int
	inclease     bool
	passingCount int64
	// Judgement and offset at the long note head, for the worst-of final tier.
	lnStartJudge    int
	lnStartDuration int64
	releaseTime     int64 // game.NotSet until the key is released early
	lnEndJudge      int
}

func newLaneState(isScratch bool) laneState {
	return laneState{
		isScratch:   isScratch,
		processing:  noNote,
		passingNote: noNote,
		releaseTime: game.NotSet,
		lnEndJudge:  noLnEndJudge,
	}
}

// multiBadCollector groups the simultaneous BAD judgements PMS hands out
// for every unjudged note inside the BAD window but outside GOOD.
type multiBadCollector struct {
	entries []multiBadEntry
	enabled bool
}

type multiBadEntry struct {
	noteIndex int
	dmtime    int64
}

func (c *multiBadCollector) clear() {
	c.entries = c.entries[:0]
}

func (c *multiBadCollector) add(noteIndex int, dmtime int64) {
	if !c.enabled {
		return
	}
	c.entries = append(c.entries, multiBadEntry{noteIndex, dmtime})
}

func (c *multiBadCollector) filter(tnoteIndex int, tnoteIsLn bool, table WindowTable) []multiBadEntry {
	if !c.enabled || len(table) < 4 {
		c.entries = c.entries[:0]
		return c.entries
	}

	goodStart, goodEnd := table[Good][0], table[Good][1]
	badStart, badEnd := table[Bad][0], table[Bad][1]

	tdmtime := int64(-1)
	for _, e := range c.entries {
		if e.noteIndex == tnoteIndex {
			tdmtime = e.dmtime
			break
		}
	}

	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.noteIndex != tnoteIndex &&
			e.dmtime >= badStart && e.dmtime <= badEnd &&
			!(e.dmtime >= goodStart && e.dmtime <= goodEnd) {
			kept = append(kept, e)
		}
	}
	c.entries = kept

	// Insertion sort by offset; the window never holds more than a few notes.
	for i := 1; i < len(c.entries); i++ {
		for j := i; j > 0 && c.entries[j].dmtime < c.entries[j-1].dmtime; j-- {
			c.entries[j], c.entries[j-1] = c.entries[j-1], c.entries[j]
		}
	}

	tnoteIsBad := (badStart <= tdmtime && tdmtime < goodStart) ||
		(goodEnd < tdmtime && tdmtime <= badEnd)
	if !tnoteIsBad || tnoteIsLn {
		for i, e := range c.entries {
			if e.dmtime >= tdmtime {
				c.entries = c.entries[:i]
				break
			}
		}
	}

	return c.entries
}

// Config assembles everything a Manager needs for one play session.
type Config struct {
	Notes    []game.Note // sorted by time
	PlayMode game.PlayMode
	LnType   game.LnType

	JudgeRank         int32
	RankType          RankType
	WindowRate        [3]int32 // PG/GR/GD window percentages, 100 = normal
	ScratchWindowRate [3]int32

	Algorithm Algorithm
	Autoplay  bool

	Property *Property
	Lanes    *game.LaneProperty // built from PlayMode when nil
}

// Manager is the per-frame matching state machine. It owns the session's
// ScoreData and ghost log; the caller owns the notes, key arrays and gauge
// it passes each tick.
type Manager struct {
	algorithm     Algorithm
	missCondition MissCondition
	lnType        game.LnType

	comboCond   [6]bool
	judgeVanish [6]bool

	nmjudge     WindowTable
	smjudge     WindowTable
	cnendjudge  WindowTable
	scnendjudge WindowTable

	nreleaseMargin int64
	sreleaseMargin int64

	mjudgeStart int64
	mjudgeEnd   int64

	laneStates []laneState
	laneNotes  [][]int // lane index -> note indices sorted by time
	noteStates []int32 // 0 = unjudged, judge+1 once judged

	score          *ScoreData
	combo          int32
	maxCombo       int32
	courseCombo    int32
	courseMaxCombo int32

	ghost     []int8
	passNotes int32

	recentJudges []int64
	recentIndex  int

	nowJudge []int
	nowCombo []int32

	laneCount int
	lanes     *game.LaneProperty

	// Physical key currently holding each scratch controller during BSS.
	sckey []int32

	autoplay      bool
	autoPressTime []int64

	multiBad multiBadCollector

	prevTime int64
}

func NewManager(cfg *Config) *Manager {
	laneCount := cfg.PlayMode.LaneCount()

	lanes := cfg.Lanes
	if lanes == nil {
		lanes = game.NewLaneProperty(cfg.PlayMode)
	}

	laneNotes := make([][]int, laneCount)
	for i := range cfg.Notes {
		lane := cfg.Notes[i].Lane
		if lane >= 0 && lane < laneCount {
			laneNotes[lane] = append(laneNotes[lane], i)
		}
	}

	laneStates := make([]laneState, laneCount)
	for lane := 0; lane < laneCount; lane++ {
		laneStates[lane] = newLaneState(lanes.ScratchIndex(lane) >= 0)
	}

	judgeRank := cfg.Property.WindowRule.ResolveJudgeRank(cfg.JudgeRank, cfg.RankType)

	nmjudge := cfg.Property.Windows(ClassNote, judgeRank, cfg.WindowRate)
	smjudge := nmjudge
	if len(cfg.Property.Scratch) > 0 {
		smjudge = cfg.Property.Windows(ClassScratch, judgeRank, cfg.ScratchWindowRate)
	}
	cnendjudge := cfg.Property.Windows(ClassLongNoteEnd, judgeRank, cfg.WindowRate)
	scnendjudge := cnendjudge
	if len(cfg.Property.LongScratch) > 0 {
		scnendjudge = cfg.Property.Windows(ClassLongScratchEnd, judgeRank, cfg.ScratchWindowRate)
	}

	var mjudgeStart, mjudgeEnd int64
	for _, w := range nmjudge {
		mjudgeStart = min(mjudgeStart, w[0])
		mjudgeEnd = max(mjudgeEnd, w[1])
	}
	for _, w := range smjudge {
		mjudgeStart = min(mjudgeStart, w[0])
		mjudgeEnd = max(mjudgeEnd, w[1])
	}

	// Pure LN ends are not judged independently, so they get no ghost slot.
	totalNotes := 0
	for i := range cfg.Notes {
		n := &cfg.Notes[i]
		if !n.IsPlayable() {
			continue
		}
		if n.Type == game.NoteLong && n.TimeEnd == 0 &&
			n.PairIndex != game.NoPair && cfg.LnType == game.LnLongNote {
			continue
		}
		totalNotes++
	}

	ghost := make([]int8, totalNotes)
	for i := range ghost {
		ghost[i] = Poor
	}

	score := NewScoreData()
	score.Notes = int32(totalNotes)

	isPms := cfg.PlayMode == game.PopN5K || cfg.PlayMode == game.PopN9K

	recent := make([]int64, 100)
	for i := range recent {
		recent[i] = game.NotSet
	}

	return &Manager{
		algorithm:      cfg.Algorithm,
		missCondition:  cfg.Property.Miss,
		lnType:         cfg.LnType,
		comboCond:      cfg.Property.Combo,
		judgeVanish:    cfg.Property.JudgeVanish,
		nmjudge:        nmjudge,
		smjudge:        smjudge,
		cnendjudge:     cnendjudge,
		scnendjudge:    scnendjudge,
		nreleaseMargin: cfg.Property.LongNoteMargin,
		sreleaseMargin: cfg.Property.LongScratchMargin,
		mjudgeStart:    mjudgeStart,
		mjudgeEnd:      mjudgeEnd,
		laneStates:     laneStates,
		laneNotes:      laneNotes,
		noteStates:     make([]int32, len(cfg.Notes)),
		score:          score,
		ghost:          ghost,
		recentJudges:   recent,
		nowJudge:       make([]int, cfg.PlayMode.PlayerCount()),
		nowCombo:       make([]int32, cfg.PlayMode.PlayerCount()),
		laneCount:      laneCount,
		lanes:          lanes,
		sckey:          make([]int32, lanes.ScratchCount()),
		autoplay:       cfg.Autoplay,
		autoPressTime:  newAutoPressTimes(lanes.PhysicalKeyCount()),
		multiBad:       multiBadCollector{enabled: isPms},
		prevTime:       game.NotSet,
	}
}

func newAutoPressTimes(n int) []int64 {
	t := make([]int64, n)
	for i := range t {
		t[i] = game.NotSet
	}
	return t
}

// Update runs one simulation tick. timeUs must be non-decreasing across
// calls; prevTime starts below any chart time, so a priming call at a
// negative timestamp leaves notes at time 0 intact. The key arrays are
// indexed by physical key and read only; keyChangedTimes carries
// game.NotSet for unchanged keys.
func (m *Manager) Update(timeUs int64, notes []game.Note, keyStates []bool, keyChangedTimes []int64, gg *gauge.Groove) []Event {
	var events []Event

	events = m.phasePass(timeUs, notes, keyStates, gg, events)
	events = m.phaseHcnGauge(timeUs, notes, gg, events)

	m.prevTime = timeUs

	events = m.phaseKeyInput(timeUs, notes, keyStates, keyChangedTimes, gg, events)
	events = m.phaseReleaseMargin(timeUs, notes, gg, events)
	events = m.phaseMiss(timeUs, notes, gg, events)

	return events
}

// phasePass advances over notes reached in (prevTime, timeUs]: HCN passing
// bookkeeping, mine damage while held, and autoplay judging.
func (m *Manager) phasePass(timeUs int64, notes []game.Note, keyStates []bool, gg *gauge.Groove, events []Event) []Event {
	for laneIdx := range m.laneStates {
		nextInclease := false
		pressed := false
		for _, k := range m.lanes.LaneToKeys(laneIdx) {
			if k < len(keyStates) && keyStates[k] {
				pressed = true
				break
			}
		}

		state := &m.laneStates[laneIdx]
		laneNotes := m.laneNotes[laneIdx]
		for state.cursor < len(laneNotes) && notes[laneNotes[state.cursor]].Time <= m.prevTime {
			state.cursor++
		}

		for i := state.cursor; i < len(laneNotes); i++ {
			noteIdx := laneNotes[i]
			note := &notes[noteIdx]
			if note.Time > timeUs {
				break
			}

			switch note.Type {
			case game.NoteLong, game.NoteCharge, game.NoteHellCharge:
				isHcn := note.Type == game.NoteHellCharge ||
					(note.Type == game.NoteLong && m.lnType == game.LnHellChargeNote)
				if isHcn {
					isEnd := note.PairIndex == game.NoPair ||
						(note.PairIndex < len(notes) && notes[note.PairIndex].Time < note.Time)
					if note.TimeEnd > 0 && note.Time < note.TimeEnd {
						state.passingNote = noteIdx
					} else if isEnd {
						state.passingNote = noNote
						state.passingCount = 0
					}
				}
			case game.NoteMine:
				if pressed {
					events = append(events, Event{Kind: EventMineDamage, Lane: laneIdx, Damage: note.Damage})
					if note.WavID > 0 {
						events = append(events, Event{Kind: EventKeySound, WavID: note.WavID})
					}
				}
			}

			if m.autoplay && m.noteStates[noteIdx] == 0 {
				firstKey := m.lanes.LaneToKeys(laneIdx)[0]
				switch note.Type {
				case game.NoteNormal:
					m.autoPressTime[firstKey] = timeUs
					if note.WavID > 0 {
						events = append(events, Event{Kind: EventKeySound, WavID: note.WavID})
					}
					events = m.updateJudge(laneIdx, noteIdx, PGreat, 0, true, gg, events)
				case game.NoteLong, game.NoteCharge, game.NoteHellCharge:
					if note.TimeEnd > note.Time && state.processing == noNote {
						m.autoPressTime[firstKey] = timeUs
						if note.WavID > 0 {
							events = append(events, Event{Kind: EventKeySound, WavID: note.WavID})
						}
						if note.Type == game.NoteLong && m.lnType == game.LnLongNote {
							// Pure LN heads are judged at release.
							state.passingCount = 0
						} else {
							events = m.updateJudge(laneIdx, noteIdx, PGreat, 0, true, gg, events)
						}
						if note.PairIndex != game.NoPair {
							state.processing = note.PairIndex
						}
						if sc := m.lanes.ScratchIndex(laneIdx); sc >= 0 {
							m.sckey[sc] = int32(firstKey)
						}
					}
					if (note.TimeEnd <= note.Time || note.PairIndex == game.NoPair) && m.noteStates[noteIdx] == 0 {
						isCnHcnEnd := note.Type == game.NoteCharge || note.Type == game.NoteHellCharge ||
							(note.Type == game.NoteLong && m.lnType != game.LnLongNote)
						if isCnHcnEnd {
							// BSS end on autoplay: swap to the paired scratch key.
							if sc := m.lanes.ScratchIndex(laneIdx); sc >= 0 {
								keys := m.lanes.ScratchKeys(sc)
								m.autoPressTime[keys[0]] = game.NotSet
								m.autoPressTime[keys[1]] = timeUs
							}
							events = m.updateJudge(laneIdx, noteIdx, PGreat, 0, true, gg, events)
							if note.WavID > 0 {
								events = append(events, Event{Kind: EventKeySound, WavID: note.WavID})
							}
							state.processing = noNote
						}
					}
				}
			}
		}

		if state.passingNote != noNote {
			passing := state.passingNote
			pairJudged := false
			if passing < len(notes) {
				pair := notes[passing].PairIndex
				if pair != game.NoPair && pair < len(notes) {
					s := m.noteStates[pair]
					pairJudged = s > 0 && s <= 4
				}
			}
			if pressed || pairJudged || m.autoplay {
				nextInclease = true
			}
		}

		if m.autoplay && state.processing == noNote {
			for _, k := range m.lanes.LaneToKeys(laneIdx) {
				if m.autoPressTime[k] != game.NotSet && timeUs-m.autoPressTime[k] > autoMinDuration {
					m.autoPressTime[k] = game.NotSet
				}
			}
		}

		state.inclease = nextInclease
	}
	return events
}

// phaseHcnGauge applies the periodic hell charge note reward or penalty:
// a half-rate GREAT for every 200ms held, a half-rate BAD for every 200ms
// released.
func (m *Manager) phaseHcnGauge(timeUs int64, notes []game.Note, gg *gauge.Groove, events []Event) []Event {
	delta := timeUs - m.prevTime
	if m.prevTime == game.NotSet {
		delta = 0
	}

	for i := range m.laneStates {
		state := &m.laneStates[i]
		if state.passingNote == noNote {
			continue
		}
		if state.passingNote >= len(notes) || m.noteStates[state.passingNote] == 0 {
			continue
		}

		if state.inclease {
			state.passingCount += delta
			if state.passingCount > hcnDuration {
				gg.UpdateWithRate(Great, 0.5)
				events = append(events, Event{Kind: EventHcnGauge, Increase: true})
				state.passingCount -= hcnDuration
			}
		} else {
			state.passingCount -= delta
			if state.passingCount < -hcnDuration {
				gg.UpdateWithRate(Bad, 0.5)
				events = append(events, Event{Kind: EventHcnGauge, Increase: false})
				state.passingCount += hcnDuration
			}
		}
	}
	return events
}

// phaseKeyInput walks physical keys, not lanes, so BSS can track which of
// a scratch's two keys is holding it.
func (m *Manager) phaseKeyInput(timeUs int64, notes []game.Note, keyStates []bool, keyChangedTimes []int64, gg *gauge.Groove, events []Event) []Event {
	for keyIdx := 0; keyIdx < m.lanes.PhysicalKeyCount(); keyIdx++ {
		laneIdx := m.lanes.KeyToLane(keyIdx)
		if keyIdx >= len(keyChangedTimes) {
			break
		}
		pmtime := keyChangedTimes[keyIdx]
		if pmtime == game.NotSet {
			continue
		}
		pressed := keyIdx < len(keyStates) && keyStates[keyIdx]
		state := &m.laneStates[laneIdx]
		sc := m.lanes.ScratchIndex(laneIdx)

		if pressed {
			if state.processing != noNote {
				procIdx := state.processing
				procNote := &notes[procIdx]
				isCnHcn := procNote.Type == game.NoteCharge || procNote.Type == game.NoteHellCharge ||
					(procNote.Type == game.NoteLong && m.lnType != game.LnLongNote)

				if sc >= 0 && isCnHcn && int32(keyIdx) != m.sckey[sc] {
					// Pressing the other scratch key closes the BSS.
					dmtime := procNote.Time - pmtime
					tier := findJudgeIndex(dmtime, m.scnendjudge)
					if procNote.WavID > 0 {
						events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
					}
					events = m.updateJudge(laneIdx, procIdx, tier, dmtime, true, gg, events)
					state.processing = noNote
					state.releaseTime = game.NotSet
					state.lnEndJudge = noLnEndJudge
					m.sckey[sc] = 0
				} else {
					// Re-press cancels the release timer.
					state.releaseTime = game.NotSet
				}
				continue
			}

			mjudge := m.nmjudge
			if state.isScratch {
				mjudge = m.smjudge
			}

			m.multiBad.clear()

			bestNoteIdx := noNote
			bestJudge := 0

			for _, noteIdx := range m.laneNotes[laneIdx] {
				note := &notes[noteIdx]
				dmtime := note.Time - pmtime

				if dmtime >= m.mjudgeEnd {
					break
				}
				if dmtime < m.mjudgeStart {
					continue
				}
				if note.Type == game.NoteMine || note.Type == game.NoteInvisible {
					continue
				}
				// Long note ends are judged on release, not press.
				if note.TimeEnd == 0 && note.IsLongNote() {
					continue
				}

				noteState := m.noteStates[noteIdx]
				if noteState == 0 {
					m.multiBad.add(noteIdx, dmtime)
				}

				shouldSelect := bestNoteIdx == noNote
				if !shouldSelect {
					shouldSelect = m.noteStates[bestNoteIdx] != 0 ||
						m.algorithm.Compare(notes[bestNoteIdx].Time, note.Time, noteState, pmtime, mjudge)
				}
				if !shouldSelect {
					continue
				}

				if m.missCondition == MissOne && noteState != 0 &&
					note.Time != 0 && (dmtime > mjudge[Good][1] || dmtime < mjudge[Good][0]) {
					continue
				}

				const outOfRange = 6
				tier := outOfRange
				switch {
				case noteState != 0:
					if dmtime >= mjudge[4][0] && dmtime <= mjudge[4][1] {
						tier = Miss
					}
				case note.IsLongNote() && dmtime < mjudge[Good][0]:
					// Late BADs never arm a long note.
				default:
					tier = findJudgeIndex(dmtime, mjudge)
					if tier >= 4 {
						tier++
					}
				}

				if tier < outOfRange {
					if tier < Poor || bestNoteIdx == noNote ||
						abs64(notes[bestNoteIdx].Time-pmtime) > abs64(note.Time-pmtime) {
						bestNoteIdx = noteIdx
						bestJudge = tier
					}
				} else {
					bestNoteIdx = noNote
				}
			}

			if bestNoteIdx == noNote {
				continue
			}

			tnote := &notes[bestNoteIdx]

			for _, mb := range m.multiBad.filter(bestNoteIdx, tnote.IsLongNote(), mjudge) {
				if notes[mb.noteIndex].IsLongNote() {
					continue
				}
				events = m.updateJudge(laneIdx, mb.noteIndex, Bad, mb.dmtime, m.judgeVanish[Bad], gg, events)
			}

			dmtime := tnote.Time - pmtime

			if tnote.IsLongNote() {
				if tnote.WavID > 0 {
					events = append(events, Event{Kind: EventKeySound, WavID: tnote.WavID})
				}
				isPureLn := tnote.Type == game.NoteLong && m.lnType == game.LnLongNote
				if isPureLn {
					if m.judgeVanish[bestJudge] {
						// Head judgement is deferred to the release.
						state.lnStartJudge = bestJudge
						state.lnStartDuration = dmtime
						if tnote.PairIndex != game.NoPair {
							state.processing = tnote.PairIndex
						}
						state.releaseTime = game.NotSet
						state.lnEndJudge = noLnEndJudge
						if sc >= 0 {
							m.sckey[sc] = int32(keyIdx)
						}
					} else {
						events = m.updateJudge(laneIdx, bestNoteIdx, bestJudge, dmtime, false, gg, events)
					}
				} else {
					if m.judgeVanish[bestJudge] {
						if tnote.PairIndex != game.NoPair {
							state.processing = tnote.PairIndex
						}
						state.releaseTime = game.NotSet
						state.lnEndJudge = noLnEndJudge
						if sc >= 0 {
							m.sckey[sc] = int32(keyIdx)
						}
					}
					events = m.updateJudge(laneIdx, bestNoteIdx, bestJudge, dmtime, m.judgeVanish[bestJudge], gg, events)
				}
			} else {
				if tnote.WavID > 0 {
					events = append(events, Event{Kind: EventKeySound, WavID: tnote.WavID})
				}
				events = m.updateJudge(laneIdx, bestNoteIdx, bestJudge, dmtime, m.judgeVanish[bestJudge], gg, events)
			}
			continue
		}

		// Key released.
		if state.processing == noNote {
			continue
		}
		procIdx := state.processing
		procNote := &notes[procIdx]
		mjudge := m.cnendjudge
		if state.isScratch {
			mjudge = m.scnendjudge
		}
		dmtime := procNote.Time - pmtime
		tier := findJudgeIndex(dmtime, mjudge)

		isCnHcn := procNote.Type == game.NoteCharge || procNote.Type == game.NoteHellCharge ||
			(procNote.Type == game.NoteLong && m.lnType != game.LnLongNote)

		if isCnHcn {
			// During BSS the starting key may only let go on a POOR.
			release := true
			if sc >= 0 {
				if tier != Poor || int32(keyIdx) != m.sckey[sc] {
					release = false
				} else {
					m.sckey[sc] = 0
				}
			}
			if release {
				if tier >= Bad && dmtime > 0 {
					state.releaseTime = timeUs
					state.lnEndJudge = tier
				} else {
					events = m.updateJudge(laneIdx, procIdx, tier, dmtime, true, gg, events)
					if procNote.WavID > 0 {
						events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
					}
					state.processing = noNote
					state.releaseTime = game.NotSet
					state.lnEndJudge = noLnEndJudge
				}
			}
		} else {
			release := true
			if sc >= 0 {
				if int32(keyIdx) != m.sckey[sc] {
					release = false
				} else {
					m.sckey[sc] = 0
				}
			}
			if release {
				finalJudge := max(tier, state.lnStartJudge)
				finalDmtime := dmtime
				if abs64(state.lnStartDuration) > abs64(dmtime) {
					finalDmtime = state.lnStartDuration
				}

				if finalJudge >= Bad && finalDmtime > 0 {
					state.releaseTime = timeUs
					state.lnEndJudge = finalJudge
				} else {
					finalJudge = min(finalJudge, Bad)
					pairIdx := procIdx
					if procNote.PairIndex != game.NoPair {
						pairIdx = procNote.PairIndex
					}
					events = m.updateJudge(laneIdx, pairIdx, finalJudge, finalDmtime, true, gg, events)
					if procNote.WavID > 0 {
						events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
					}
					state.processing = noNote
					state.releaseTime = game.NotSet
					state.lnEndJudge = noLnEndJudge
				}
			}
		}
	}
	return events
}

// phaseReleaseMargin applies deferred long note end judgements once the
// release margin has elapsed, and closes pure LNs held past their end.
func (m *Manager) phaseReleaseMargin(timeUs int64, notes []game.Note, gg *gauge.Groove, events []Event) []Event {
	for laneIdx := range m.laneStates {
		state := &m.laneStates[laneIdx]
		if state.processing == noNote {
			continue
		}

		procIdx := state.processing
		procNote := &notes[procIdx]
		releaseMargin := m.nreleaseMargin
		if state.isScratch {
			releaseMargin = m.sreleaseMargin
		}

		isPureLn := procNote.Type == game.NoteLong && m.lnType == game.LnLongNote

		pairIdx := procIdx
		if procNote.PairIndex != game.NoPair {
			pairIdx = procNote.PairIndex
		}

		if isPureLn {
			switch {
			case state.releaseTime != game.NotSet && state.releaseTime+releaseMargin <= timeUs:
				dmtime := procNote.Time - state.releaseTime
				events = m.updateJudge(laneIdx, pairIdx, state.lnEndJudge, dmtime, true, gg, events)
				if procNote.WavID > 0 {
					events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
				}
				state.processing = noNote
				state.releaseTime = game.NotSet
				state.lnEndJudge = noLnEndJudge
			case procNote.Time < timeUs:
				// Held through the end: the head judgement closes the LN.
				events = m.updateJudge(laneIdx, pairIdx, state.lnStartJudge, state.lnStartDuration, true, gg, events)
				if procNote.WavID > 0 {
					events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
				}
				state.processing = noNote
				state.releaseTime = game.NotSet
				state.lnEndJudge = noLnEndJudge
			}
		} else if state.releaseTime != game.NotSet && state.releaseTime+releaseMargin <= timeUs {
			tier := state.lnEndJudge
			if tier == noLnEndJudge {
				tier = Poor
			}
			dmtime := procNote.Time - state.releaseTime
			events = m.updateJudge(laneIdx, procIdx, tier, dmtime, true, gg, events)
			if procNote.WavID > 0 {
				events = append(events, Event{Kind: EventKeySound, WavID: procNote.WavID})
			}
			state.processing = noNote
			state.releaseTime = game.NotSet
			state.lnEndJudge = noLnEndJudge
		}
	}
	return events
}

// phaseMiss poors every unjudged note whose BAD window has fully elapsed.
func (m *Manager) phaseMiss(timeUs int64, notes []game.Note, gg *gauge.Groove, events []Event) []Event {
	for laneIdx := range m.laneStates {
		state := &m.laneStates[laneIdx]
		mjudge := m.nmjudge
		if state.isScratch {
			mjudge = m.smjudge
		}
		if len(mjudge) <= Bad {
			continue
		}
		bdLate := mjudge[Bad][0]

		for _, noteIdx := range m.laneNotes[laneIdx] {
			note := &notes[noteIdx]
			if note.Time >= timeUs+bdLate {
				break
			}
			dmtime := note.Time - timeUs

			if m.noteStates[noteIdx] != 0 {
				continue
			}

			switch note.Type {
			case game.NoteNormal:
				events = m.updateJudge(laneIdx, noteIdx, Poor, dmtime, true, gg, events)
			case game.NoteLong, game.NoteCharge, game.NoteHellCharge:
				if note.TimeEnd > note.Time {
					isCnHcn := note.Type == game.NoteCharge || note.Type == game.NoteHellCharge ||
						(note.Type == game.NoteLong && m.lnType != game.LnLongNote)
					if isCnHcn {
						// A missed head takes the tail with it.
						events = m.updateJudge(laneIdx, noteIdx, Poor, dmtime, true, gg, events)
						if note.PairIndex != game.NoPair && m.noteStates[note.PairIndex] == 0 {
							events = m.updateJudge(laneIdx, note.PairIndex, Poor, dmtime, true, gg, events)
						}
					} else if note.PairIndex == game.NoPair || state.processing != note.PairIndex {
						events = m.updateJudge(laneIdx, noteIdx, Poor, dmtime, true, gg, events)
					}
				} else {
					isPureLnEnd := note.Type == game.NoteLong && m.lnType == game.LnLongNote
					if !isPureLnEnd {
						events = m.updateJudge(laneIdx, noteIdx, Poor, dmtime, true, gg, events)
					}
					state.processing = noNote
					state.releaseTime = game.NotSet
					state.lnEndJudge = noLnEndJudge
					if sc := m.lanes.ScratchIndex(laneIdx); sc >= 0 {
						m.sckey[sc] = 0
					}
				}
			}
		}
	}
	return events
}

// updateJudge commits a judgement: ghost, note state, score counters,
// combo, gauge, and the per-player judge display.
func (m *Manager) updateJudge(lane, noteIdx, tier int, duration int64, vanish bool, gg *gauge.Groove, events []Event) []Event {
	if vanish {
		if int(m.passNotes) < len(m.ghost) {
			m.ghost[m.passNotes] = int8(tier)
		}
		m.noteStates[noteIdx] = int32(tier) + 1
		m.passNotes++
		m.score.PassNotes = m.passNotes
	}

	if m.missCondition == MissOne && tier == Poor &&
		m.noteStates[noteIdx] != 0 && m.noteStates[noteIdx] != int32(tier)+1 {
		return events
	}

	m.score.AddJudgeCount(tier, duration >= 0, 1)

	if tier < Poor {
		m.recentIndex = (m.recentIndex + 1) % len(m.recentJudges)
		m.recentJudges[m.recentIndex] = duration
	}

	if m.comboCond[tier] && tier < Miss {
		m.combo++
		m.maxCombo = max(m.maxCombo, m.combo)
		m.score.MaxCombo = m.maxCombo
		m.courseCombo++
		m.courseMaxCombo = max(m.courseMaxCombo, m.courseCombo)
	}
	if !m.comboCond[tier] {
		m.combo = 0
		m.courseCombo = 0
	}

	gg.Update(tier)

	if len(m.nowJudge) > 0 && m.laneCount > 0 {
		judgeIndex := lane / (m.laneCount / len(m.nowJudge))
		if judgeIndex < len(m.nowJudge) {
			// 0 means no judgement yet, so tiers are stored off by one.
			m.nowJudge[judgeIndex] = tier + 1
			m.nowCombo[judgeIndex] = m.courseCombo
		}
	}

	return append(events, Event{Kind: EventJudge, NoteIndex: noteIdx, Tier: tier, Duration: duration})
}

// findJudgeIndex returns the raw window row containing dmtime, or the
// table length when outside every window. Rows 0-3 are PG-BD; callers
// shift 4 and up to keep POOR and MISS apart.
func findJudgeIndex(dmtime int64, table WindowTable) int {
	for i, w := range table {
		if dmtime >= w[0] && dmtime <= w[1] {
			return i
		}
	}
	return len(table)
}

// --- Accessors ---

func (m *Manager) Score() *ScoreData {
	return m.score
}

// FinalScore copies the session counters and fills the per-play record
// fields: the session's bad+poor count and the mean absolute timing
// offset over the recent judgements. AvgJudge keeps its sentinel when
// nothing was judged.
func (m *Manager) FinalScore() ScoreData {
	data := *m.score
	data.MinBP = data.BadPoorCount()
	var sum, n int64
	for _, d := range m.recentJudges {
		if d == game.NotSet {
			continue
		}
		if d < 0 {
			d = -d
		}
		sum += d
		n++
	}
	if n > 0 {
		data.AvgJudge = sum / n
	}
	return data
}

func (m *Manager) Combo() int32 {
	return m.combo
}

func (m *Manager) MaxCombo() int32 {
	return m.maxCombo
}

func (m *Manager) CourseCombo() int32 {
	return m.courseCombo
}

// SetCourseCombo carries combo into the next stage of a course.
func (m *Manager) SetCourseCombo(combo int32) {
	m.courseCombo = combo
}

func (m *Manager) CourseMaxCombo() int32 {
	return m.courseMaxCombo
}

func (m *Manager) SetCourseMaxCombo(combo int32) {
	m.courseMaxCombo = combo
}

// Ghost is the note-ordered judgement log, one tier per playable note.
func (m *Manager) Ghost() []int8 {
	return m.ghost
}

func (m *Manager) PassNotes() int32 {
	return m.passNotes
}

// NowJudge is the last judgement shown for a player, tier+1, 0 when none.
func (m *Manager) NowJudge(player int) int {
	if player < 0 || player >= len(m.nowJudge) {
		return 0
	}
	return m.nowJudge[player]
}

func (m *Manager) NowCombo(player int) int32 {
	if player < 0 || player >= len(m.nowCombo) {
		return 0
	}
	return m.nowCombo[player]
}

// RecentJudges is the ring of the last hundred judged offsets, µs.
func (m *Manager) RecentJudges() []int64 {
	return m.recentJudges
}

func (m *Manager) NoteState(noteIdx int) int32 {
	if noteIdx < 0 || noteIdx >= len(m.noteStates) {
		return 0
	}
	return m.noteStates[noteIdx]
}

// ProcessingLn reports whether a lane is inside a held long note.
func (m *Manager) ProcessingLn(lane int) bool {
	return lane >= 0 && lane < len(m.laneStates) && m.laneStates[lane].processing != noNote
}

// HcnActive reports whether a lane's hell charge note is being held.
func (m *Manager) HcnActive(lane int) bool {
	return lane >= 0 && lane < len(m.laneStates) &&
		m.laneStates[lane].passingNote != noNote && m.laneStates[lane].inclease
}

// AutoPressTimes exposes autoplay's synthetic key presses for rendering.
func (m *Manager) AutoPressTimes() []int64 {
	return m.autoPressTime
}

// JudgeTable returns the scaled note windows for display.
func (m *Manager) JudgeTable(scratch bool) WindowTable {
	if scratch {
		return m.smjudge
	}
	return m.nmjudge
}
