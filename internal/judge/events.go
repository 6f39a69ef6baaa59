package judge

// EventKind tags the events a Manager emits while updating.
type EventKind uint8

const (
	// EventJudge reports a note receiving its judgement.
	EventJudge EventKind = iota
	// EventKeySound asks the caller to play a key sound.
	EventKeySound
	// EventMineDamage reports a mine hit while the key was held.
	EventMineDamage
	// EventHcnGauge reports a periodic hell charge note gauge tick.
	EventHcnGauge
)

type Event struct {
	Kind EventKind

	// EventJudge
	NoteIndex int
	Tier      int
	Duration  int64 // µs offset, >= 0 means early

	// EventKeySound
	WavID uint16

	// EventMineDamage
	Lane   int
	Damage int32

	// EventHcnGauge
	Increase bool
}
