package score

import (
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/rule"
)

type Scorer interface {
	Init() error
	Deinit()

	// Save the result of this performance
	Save(chart *game.Chart, result *Result) error

	// Load up previous results for the chart, best first
	Load(chart *game.Chart) ([]Result, error)

	// Best returns the highest ex score result, false when unplayed
	Best(chart *game.Chart) (*Result, bool)
}

type Result struct {
	ID       string
	Sum      string
	Clear    rule.ClearType
	Data     judge.ScoreData
	Ghost    []int8
	Rate     float64
	PlayedAt time.Time
}
