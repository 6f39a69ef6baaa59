// Package rule bundles the judge and gauge rule sets a play session runs
// under, plus the clear grading derived from the outcome.
package rule

import (
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/gauge"
	"git.lost.host/meutraa/eotb/internal/judge"
)

// PlayerRule pairs the judge property with the gauge property set that a
// session is scored under.
type PlayerRule struct {
	Judge *judge.Property
	Gauge *gauge.Property
}

// ForMode builds the default rule set for a play mode.
func ForMode(mode game.PlayMode) *PlayerRule {
	return &PlayerRule{
		Judge: judge.ForMode(mode),
		Gauge: gauge.ForMode(mode),
	}
}

// Lr2 builds the LR2-compatible rule set, used regardless of mode when
// LR2 compatibility is requested.
func Lr2() *PlayerRule {
	return &PlayerRule{
		Judge: judge.Lr2(),
		Gauge: gauge.Lr2(),
	}
}

// DefaultTotal is the gauge recovery total assumed when a chart declares
// no #TOTAL: 160 + (n + clamp(n-400, 0, 200)) * 0.16.
func DefaultTotal(notes int) float64 {
	n := float64(notes)
	extra := n - 400.0
	if extra < 0 {
		extra = 0
	} else if extra > 200 {
		extra = 200
	}
	return 160.0 + (n+extra)*0.16
}
