package parser

import "git.lost.host/meutraa/eotb/internal/game"

type Parser interface {
	Parse(file string) (*game.Chart, error)
}
