package config

import (
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/gauge"
	"git.lost.host/meutraa/eotb/internal/judge"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory   = kingpin.Arg("directory", "Song/chart directory").Required().ExistingDir()
	Rate        = kingpin.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64()
	Offset      = kingpin.Flag("offset", "Global offset").Default("0ms").Short('o').Duration()
	Delay       = kingpin.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	Autoplay    = kingpin.Flag("autoplay", "Let the chart play itself").Short('a').Bool()
	Device      = kingpin.Flag("device", "Keyboard event device, e.g. /dev/input/event0").String()
	Lr2         = kingpin.Flag("lr2", "Judge and gauge LR2 style").Bool()
	FramePeriod = kingpin.Flag("frame-period", "Render frame period").Default("1ms").Short('p').Duration()
	BarRow      = kingpin.Flag("bar-row", "Console rows between hit bar and bottom").Default("8").Uint()
	HiSpeed     = kingpin.Flag("hi-speed", "Note scroll multiplier, lower is slower").Default("1.0").Float64()

	gaugeName = kingpin.Flag("gauge", "Gauge type").Default("normal").Short('g').
			Enum("assist-easy", "easy", "normal", "hard", "ex-hard", "hazard",
			"class", "ex-class", "ex-hard-class")
	algorithmName = kingpin.Flag("algorithm", "Note matching algorithm").Default("combo").
			Enum("combo", "duration", "lowest", "score")
	lnModeName = kingpin.Flag("ln-mode", "Long note mode override").Default("chart").
			Enum("chart", "ln", "cn", "hcn")

	WindowRate        = kingpin.Flag("window-rate", "PG/GR/GD window percentage").Default("100").Int32()
	ScratchWindowRate = kingpin.Flag("scratch-window-rate", "Scratch window percentage").Default("100").Int32()

	keys5 = kingpin.Flag("keys-5k", "Keys for 5k+scratch").Default("zsxdcqw").String()
	keys7 = kingpin.Flag("keys-7k", "Keys for 7k+scratch").Default("zsxdcfvqw").String()
	keys9 = kingpin.Flag("keys-9k", "Keys for 9 buttons").Default("asdfghjkl").String()
)

func GaugeType() gauge.Type {
	switch *gaugeName {
	case "assist-easy":
		return gauge.AssistEasy
	case "easy":
		return gauge.Easy
	case "hard":
		return gauge.Hard
	case "ex-hard":
		return gauge.ExHard
	case "hazard":
		return gauge.Hazard
	case "class":
		return gauge.Class
	case "ex-class":
		return gauge.ExClass
	case "ex-hard-class":
		return gauge.ExHardClass
	}
	return gauge.Normal
}

func Algorithm() judge.Algorithm {
	switch *algorithmName {
	case "duration":
		return judge.AlgorithmDuration
	case "lowest":
		return judge.AlgorithmLowest
	case "score":
		return judge.AlgorithmScore
	}
	return judge.AlgorithmCombo
}

// LnMode returns the chart's declared mode unless overridden.
func LnMode(chart game.LnType) game.LnType {
	switch *lnModeName {
	case "ln":
		return game.LnLongNote
	case "cn":
		return game.LnChargeNote
	case "hcn":
		return game.LnHellChargeNote
	}
	return chart
}

// Keys returns one rune per physical key for terminal input. Scratch
// lanes take two runes, spin up then down.
func Keys(mode game.PlayMode) []rune {
	switch mode {
	case game.Beat5K, game.Beat10K:
		return []rune(*keys5)
	case game.PopN5K, game.PopN9K:
		return []rune(*keys9)
	}
	return []rune(*keys7)
}

func KeyIndex(r rune, mode game.PlayMode) int {
	for i, c := range Keys(mode) {
		if r == c {
			return i
		}
	}
	return -1
}

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}
