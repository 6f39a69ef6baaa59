package judge

import "git.lost.host/meutraa/eotb/internal/game"

// NoteClass selects which base window table a note is judged against.
type NoteClass uint8

const (
	ClassNote NoteClass = iota
	ClassLongNoteEnd
	ClassScratch
	ClassLongScratchEnd
)

// MissCondition controls how many notes an empty poor can hit at once.
type MissCondition uint8

const (
	// MissAlways fires an empty poor for every note inside the window.
	MissAlways MissCondition = iota
	// MissOne fires an empty poor only for the first note inside the window.
	MissOne
)

// Property is the judging rule set of one play mode: base windows per note
// class plus combo, vanish and miss behaviour per tier.
type Property struct {
	Note    []Window // [PG, GR, GD, BD, MS]
	Scratch []Window

	LongNote          []Window // [PG, GR, GD, BD]
	LongNoteMargin    int64
	LongScratch       []Window
	LongScratchMargin int64

	Combo       [6]bool // does the tier keep the combo alive
	Miss        MissCondition
	JudgeVanish [6]bool // does the tier consume the note
	WindowRule  WindowRule
}

func FiveKeys() *Property {
	return &Property{
		Note: []Window{
			{-20000, 20000},
			{-50000, 50000},
			{-100000, 100000},
			{-150000, 150000},
			{-150000, 500000},
		},
		Scratch: []Window{
			{-30000, 30000},
			{-60000, 60000},
			{-110000, 110000},
			{-160000, 160000},
			{-160000, 500000},
		},
		LongNote: []Window{
			{-120000, 120000},
			{-150000, 150000},
			{-200000, 200000},
			{-250000, 250000},
		},
		LongScratch: []Window{
			{-130000, 130000},
			{-160000, 160000},
			{-110000, 110000},
			{-260000, 260000},
		},
		Combo:       [6]bool{true, true, true, false, false, false},
		Miss:        MissAlways,
		JudgeVanish: [6]bool{true, true, true, true, true, false},
		WindowRule:  RuleNormal,
	}
}

func SevenKeys() *Property {
	return &Property{
		Note: []Window{
			{-20000, 20000},
			{-60000, 60000},
			{-150000, 150000},
			{-280000, 220000},
			{-150000, 500000},
		},
		Scratch: []Window{
			{-30000, 30000},
			{-70000, 70000},
			{-160000, 160000},
			{-290000, 230000},
			{-160000, 500000},
		},
		LongNote: []Window{
			{-120000, 120000},
			{-160000, 160000},
			{-200000, 200000},
			{-280000, 220000},
		},
		LongScratch: []Window{
			{-130000, 130000},
			{-170000, 170000},
			{-210000, 210000},
			{-290000, 230000},
		},
		Combo:       [6]bool{true, true, true, false, false, true},
		Miss:        MissAlways,
		JudgeVanish: [6]bool{true, true, true, true, true, false},
		WindowRule:  RuleNormal,
	}
}

func Pms() *Property {
	return &Property{
		Note: []Window{
			{-20000, 20000},
			{-50000, 50000},
			{-117000, 117000},
			{-183000, 183000},
			{-175000, 500000},
		},
		LongNote: []Window{
			{-120000, 120000},
			{-150000, 150000},
			{-217000, 217000},
			{-283000, 283000},
		},
		LongNoteMargin: 200000,
		Combo:          [6]bool{true, true, true, false, false, false},
		Miss:           MissOne,
		JudgeVanish:    [6]bool{true, true, true, false, true, false},
		WindowRule:     RulePms,
	}
}

func KeyboardKeys() *Property {
	return &Property{
		Note: []Window{
			{-30000, 30000},
			{-90000, 90000},
			{-200000, 200000},
			{-320000, 240000},
			{-200000, 650000},
		},
		LongNote: []Window{
			{-160000, 25000},
			{-200000, 75000},
			{-260000, 140000},
			{-320000, 240000},
		},
		Combo:       [6]bool{true, true, true, false, false, true},
		Miss:        MissAlways,
		JudgeVanish: [6]bool{true, true, true, true, true, false},
		WindowRule:  RuleNormal,
	}
}

func Lr2() *Property {
	note := []Window{
		{-21000, 21000},
		{-60000, 60000},
		{-120000, 120000},
		{-200000, 200000},
		{0, 1000000},
	}
	longnote := []Window{
		{-120000, 120000},
		{-120000, 120000},
		{-120000, 120000},
		{-200000, 200000},
	}
	return &Property{
		Note:        note,
		Scratch:     append([]Window(nil), note...),
		LongNote:    longnote,
		LongScratch: append([]Window(nil), longnote...),
		Combo:       [6]bool{true, true, true, false, false, true},
		Miss:        MissAlways,
		JudgeVanish: [6]bool{true, true, true, true, true, false},
		WindowRule:  RuleLr2,
	}
}

// ForMode picks the judge property matching a play mode's family.
func ForMode(mode game.PlayMode) *Property {
	switch mode {
	case game.Beat5K, game.Beat10K:
		return FiveKeys()
	case game.PopN5K, game.PopN9K:
		return Pms()
	case game.Keyboard24K, game.Keyboard24KDouble:
		return KeyboardKeys()
	}
	return SevenKeys()
}

// Windows builds the scaled window table for a note class.
func (p *Property) Windows(class NoteClass, judgeRank int32, windowRate [3]int32) WindowTable {
	var base []Window
	switch class {
	case ClassNote:
		base = p.Note
	case ClassLongNoteEnd:
		base = p.LongNote
	case ClassScratch:
		base = p.Scratch
	case ClassLongScratchEnd:
		base = p.LongScratch
	}
	if len(base) == 0 {
		// Modes without a scratch fall back to the note tables.
		if class == ClassScratch {
			base = p.Note
		} else {
			base = p.LongNote
		}
	}
	return p.WindowRule.Create(base, judgeRank, windowRate)
}
