package game

// PlayMode selects the lane layout of a chart.
type PlayMode uint8

const (
	Beat5K PlayMode = iota
	Beat7K
	Beat10K
	Beat14K
	PopN5K
	PopN9K
	Keyboard24K
	Keyboard24KDouble
)

// LaneCount is the number of logical lanes, scratch included.
func (m PlayMode) LaneCount() int {
	switch m {
	case Beat5K:
		return 6
	case Beat7K:
		return 8
	case Beat10K:
		return 12
	case Beat14K:
		return 16
	case PopN5K:
		return 5
	case PopN9K:
		return 9
	case Keyboard24K:
		return 26
	case Keyboard24KDouble:
		return 52
	}
	return 0
}

func (m PlayMode) PlayerCount() int {
	switch m {
	case Beat10K, Beat14K, Keyboard24KDouble:
		return 2
	}
	return 1
}

// DetectMode guesses the play mode from the #PLAYER header and the
// highest used key channel.
func DetectMode(player int, maxKeyChannel int) PlayMode {
	if player == 3 {
		if maxKeyChannel > 8 {
			return Beat14K
		}
		return Beat10K
	}
	if maxKeyChannel <= 5 {
		return Beat5K
	}
	if maxKeyChannel <= 8 {
		return Beat7K
	}
	return PopN9K
}

func (m PlayMode) String() string {
	switch m {
	case Beat5K:
		return "beat-5k"
	case Beat7K:
		return "beat-7k"
	case Beat10K:
		return "beat-10k"
	case Beat14K:
		return "beat-14k"
	case PopN5K:
		return "popn-5k"
	case PopN9K:
		return "popn-9k"
	case Keyboard24K:
		return "keyboard-24k"
	case Keyboard24KDouble:
		return "keyboard-48k"
	}
	return "unknown"
}
