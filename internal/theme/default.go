package theme

import (
	"fmt"
	"strings"

	"git.lost.host/meutraa/eotb/internal/judge"
)

type DefaultTheme struct{}

type color struct {
	R, G, B uint8
}

const (
	noteSym = "■"
	bodySym = "│"
	mineSym = "⨯"
	barSym  = "-"
)

var (
	white   = color{220, 220, 220}
	blue    = color{60, 140, 236}
	scratch = color{236, 30, 30}
	mine    = color{236, 30, 0}

	judgeColors = [...]string{
		"\033[38;5;153m",
		"\033[1;33m",
		"\033[1;32m",
		"\033[1;35m",
		"\033[1;31m",
		"\033[1;31m",
	}
)

// Skin offset 0 is scratch; odd key slots are white, even blue.
func laneColor(skinOffset int) color {
	switch {
	case skinOffset == 0:
		return scratch
	case skinOffset%2 == 0:
		return blue
	}
	return white
}

func paint(c color, sym string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

func (t *DefaultTheme) RenderNote(skinOffset int) string {
	return paint(laneColor(skinOffset), noteSym)
}

func (t *DefaultTheme) RenderLongBody(skinOffset int) string {
	return paint(laneColor(skinOffset), bodySym)
}

func (t *DefaultTheme) RenderMine() string {
	return paint(mine, mineSym)
}

func (t *DefaultTheme) RenderHitField(skinOffset int) string {
	return barSym
}

// RenderJudge colors the tier's name; the empty poor shares POOR's label.
func (t *DefaultTheme) RenderJudge(tier int) string {
	if tier < 0 || tier >= len(judgeColors) {
		return "      "
	}
	name := tier
	if name == judge.Miss {
		name = judge.Poor
	}
	return fmt.Sprintf("%s%6v\033[0m", judgeColors[tier], judge.TierName(name))
}

// RenderGauge draws a 40 cell meter, green while the gauge clears.
func (t *DefaultTheme) RenderGauge(value float32, qualified bool) string {
	const cells = 40
	filled := int(value / 100 * cells)
	if filled > cells {
		filled = cells
	}
	if filled < 0 {
		filled = 0
	}
	col := "\033[1;31m"
	if qualified {
		col = "\033[1;32m"
	}
	return fmt.Sprintf("%s%s\033[0m%s %5.1f%%",
		col,
		strings.Repeat("█", filled),
		strings.Repeat("░", cells-filled),
		value)
}
