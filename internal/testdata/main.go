package testdata

import (
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/parser"
)

func GetChart() (*game.Chart, error) {
	var p parser.DefaultParser
	return p.ParseData([]byte(data), false)
}

const data = `#PLAYER 1
#TITLE conflict
#ARTIST nobody
#GENRE renaissance
#BPM 150
#RANK 3
#TOTAL 260
#LNTYPE 1

#00111:0101
#00113:00010001
#00118:01
#00116:0001

#00211:01010101
#00212:00010001
#00152:01000001

#002D3:00000300

#00311:01
#00318:00000001
#00313:01010101
`
