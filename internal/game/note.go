package game

// NoteType is the playable class of a chart object.
type NoteType uint8

const (
	NoteNormal NoteType = iota
	NoteLong
	NoteCharge
	NoteHellCharge
	NoteMine
	NoteInvisible
)

// LnType is the long note mode declared by the #LNTYPE header.
type LnType uint8

const (
	LnLongNote LnType = iota + 1
	LnChargeNote
	LnHellChargeNote
)

// NoPair marks a note without a paired long note end.
const NoPair = -1

type Note struct {
	Lane      int // The chart lane, 0-indexed
	Type      NoteType
	Time      int64 // The time the note should be hit, in µs
	TimeEnd   int64 // The time a long note should be released, in µs
	WavID     uint16
	EndWavID  uint16
	Damage    int32 // Mine damage applied to the gauge
	PairIndex int   // Index of the paired end note, NoPair if none
}

func (n *Note) IsLongNote() bool {
	return n.Type == NoteLong || n.Type == NoteCharge || n.Type == NoteHellCharge
}

// Playable notes are the ones that receive a judgement and count for combo.
func (n *Note) IsPlayable() bool {
	return n.Type != NoteMine && n.Type != NoteInvisible
}

func (n *Note) Duration() int64 {
	return n.TimeEnd - n.Time
}
