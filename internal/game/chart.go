package game

type Chart struct {
	Title     string
	Artist    string
	Genre     string
	Mode      PlayMode
	Bpm       float64
	Total     float64 // #TOTAL gauge recovery, 0 if undeclared
	Rank      int     // #RANK as declared, see judge rank resolution
	DefExRank int     // #DEFEXRANK percentage, 0 if undeclared
	LnMode    LnType

	Notes     []Note // Sorted by Time
	NoteCount int    // Playable notes only
	MineCount int
}

// PlayableNotes counts judgements the chart will produce, long note
// ends included.
func (c *Chart) PlayableNotes() int {
	n := 0
	for i := range c.Notes {
		if c.Notes[i].IsPlayable() {
			n++
		}
	}
	return n
}

func (c *Chart) LastTime() int64 {
	var last int64
	for i := range c.Notes {
		if c.Notes[i].Time > last {
			last = c.Notes[i].Time
		}
		if c.Notes[i].TimeEnd > last {
			last = c.Notes[i].TimeEnd
		}
	}
	return last
}
