package parser

import (
	"errors"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/eotb/internal/game"
)

type DefaultParser struct{}

// Channel groups. The channel's second base36 digit picks the key, the
// first digit the player and object class.
const (
	chMeasureLen = 2
	chBpm        = 3
	chExBpm      = 8
)

type object struct {
	frac    float64
	channel int
	value   int
}

// TODO: #RANDOM blocks are skipped entirely instead of picking a branch.
var skipPrefixes = []string{"#RANDOM", "#IF", "#ELSE", "#ENDIF", "#ENDRANDOM"}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	return p.ParseData(data, path.Ext(file) == ".pms")
}

func (p *DefaultParser) ParseData(data []byte, pms bool) (*game.Chart, error) {
	chart := &game.Chart{Bpm: 130, Rank: -1, LnMode: game.LnLongNote}

	player := 1
	lnobj := -1
	bpmDefs := map[int]float64{}
	measureLens := map[int]float64{}
	measures := map[int][]object{}
	maxMeasure := 0

	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if skipLine(line) {
			continue
		}

		if len(line) >= 7 && line[6] == ':' && isDigits(line[1:4]) {
			measure, _ := strconv.Atoi(line[1:4])
			channel := base36(line[4:6])
			if channel < 0 {
				continue
			}
			body := strings.TrimSpace(line[7:])

			if channel == chMeasureLen {
				if f, err := strconv.ParseFloat(body, 64); nil == err && f > 0 {
					measureLens[measure] = f
				}
			} else {
				pairs := len(body) / 2
				for i := 0; i < pairs; i++ {
					var value int
					if channel == chBpm {
						v, err := strconv.ParseInt(body[i*2:i*2+2], 16, 32)
						if nil != err {
							continue
						}
						value = int(v)
					} else {
						value = base36(body[i*2 : i*2+2])
					}
					if value <= 0 {
						continue
					}
					measures[measure] = append(measures[measure], object{
						frac:    float64(i) / float64(pairs),
						channel: channel,
						value:   value,
					})
				}
			}
			if measure > maxMeasure {
				maxMeasure = measure
			}
			continue
		}

		key, value := splitHeader(line)
		switch {
		case key == "PLAYER":
			player, _ = strconv.Atoi(value)
		case key == "TITLE":
			chart.Title = value
		case key == "ARTIST":
			chart.Artist = value
		case key == "GENRE":
			chart.Genre = value
		case key == "BPM":
			if f, err := strconv.ParseFloat(value, 64); nil == err && f > 0 {
				chart.Bpm = f
			}
		case key == "RANK":
			if n, err := strconv.Atoi(value); nil == err {
				chart.Rank = n
			}
		case key == "DEFEXRANK":
			if n, err := strconv.Atoi(value); nil == err {
				chart.DefExRank = n
			}
		case key == "TOTAL":
			if f, err := strconv.ParseFloat(value, 64); nil == err && f > 0 {
				chart.Total = f
			}
		case key == "LNTYPE":
			if n, err := strconv.Atoi(value); nil == err && n >= 1 && n <= 2 {
				chart.LnMode = game.LnType(n)
			}
		case key == "LNOBJ":
			lnobj = base36(value)
		case strings.HasPrefix(key, "BPM") && len(key) == 5:
			if f, err := strconv.ParseFloat(value, 64); nil == err && f > 0 {
				bpmDefs[base36(key[3:])] = f
			}
		}
	}

	chart.Mode = detectMode(player, pms, measures)

	if err := p.buildNotes(chart, measures, measureLens, bpmDefs, maxMeasure, lnobj); nil != err {
		return nil, err
	}
	if len(chart.Notes) == 0 {
		return nil, errors.New("chart contains no playable objects")
	}
	return chart, nil
}

func detectMode(player int, pms bool, measures map[int][]object) game.PlayMode {
	if pms {
		return game.PopN9K
	}
	maxKey := 0
	for _, objs := range measures {
		for _, o := range objs {
			cls, _, digit := splitChannel(o.channel)
			if cls != 1 && cls != 5 {
				continue
			}
			switch {
			case digit >= 1 && digit <= 5:
				if digit > maxKey {
					maxKey = digit
				}
			case digit == 8 || digit == 9:
				if digit-2 > maxKey {
					maxKey = digit - 2
				}
			}
		}
	}
	return game.DetectMode(player, maxKey)
}

// splitChannel breaks a raw channel into object class (1 visible,
// 3 invisible, 5 long note, 0xd mine), player side and key digit.
func splitChannel(channel int) (class, player, digit int) {
	hi := channel / 36
	lo := channel % 36
	switch hi {
	case 1, 3, 5, 0xd:
		return hi, 0, lo
	case 2, 4, 6, 0xe:
		return hi - 1, 1, lo
	}
	return 0, 0, 0
}

func laneFor(mode game.PlayMode, player, digit int) int {
	var lane int
	switch mode {
	case game.Beat5K, game.Beat10K:
		switch {
		case digit >= 1 && digit <= 5:
			lane = digit - 1
		case digit == 6:
			lane = 5
		default:
			return -1
		}
		return lane + player*6
	case game.PopN5K, game.PopN9K:
		// PMS spreads nine buttons over both player sides.
		switch {
		case player == 0 && digit >= 1 && digit <= 5:
			return digit - 1
		case player == 1 && digit >= 2 && digit <= 5:
			return digit + 3
		}
		return -1
	case game.Beat7K, game.Beat14K:
		switch {
		case digit >= 1 && digit <= 5:
			lane = digit - 1
		case digit == 8 || digit == 9:
			lane = digit - 3
		case digit == 6:
			lane = 7
		default:
			return -1
		}
		return lane + player*8
	}
	if digit >= 1 && digit <= 5 {
		return digit - 1 + player*6
	}
	return -1
}

func (p *DefaultParser) buildNotes(
	chart *game.Chart,
	measures map[int][]object,
	measureLens map[int]float64,
	bpmDefs map[int]float64,
	maxMeasure, lnobj int,
) error {
	bpm := chart.Bpm
	timeUs := 0.0
	lnHead := make(map[int]int)
	lastNote := make(map[int]int)

	for m := 0; m <= maxMeasure; m++ {
		objs := append([]object(nil), measures[m]...)
		sort.SliceStable(objs, func(i, j int) bool { return objs[i].frac < objs[j].frac })

		length := 1.0
		if l, ok := measureLens[m]; ok {
			length = l
		}
		beats := 4.0 * length

		prevFrac := 0.0
		for _, o := range objs {
			timeUs += (o.frac - prevFrac) * beats * 60e6 / bpm
			prevFrac = o.frac

			switch {
			case o.channel == chBpm:
				bpm = float64(o.value)
			case o.channel == chExBpm:
				if v, ok := bpmDefs[o.value]; ok {
					bpm = v
				}
			default:
				p.addNote(chart, o, int64(timeUs), lnobj, lnHead, lastNote)
			}
		}
		timeUs += (1.0 - prevFrac) * beats * 60e6 / bpm
	}

	for lane, head := range lnHead {
		log.Warn("unterminated long note", "lane", lane, "time", chart.Notes[head].Time)
		chart.Notes[head].Type = game.NoteNormal
	}

	for i := range chart.Notes {
		n := &chart.Notes[i]
		if n.Type == game.NoteMine {
			chart.MineCount++
		} else if n.IsPlayable() {
			chart.NoteCount++
		}
	}
	return nil
}

func (p *DefaultParser) addNote(
	chart *game.Chart,
	o object,
	timeUs int64,
	lnobj int,
	lnHead, lastNote map[int]int,
) {
	class, player, digit := splitChannel(o.channel)
	if class == 0 {
		return
	}
	lane := laneFor(chart.Mode, player, digit)
	if lane < 0 {
		return
	}

	switch class {
	case 1:
		if o.value == lnobj && lnobj > 0 {
			// The marker object turns the previous note into a long note.
			if head, ok := lastNote[lane]; ok && chart.Notes[head].Type == game.NoteNormal {
				chart.Notes[head].Type = game.NoteLong
				chart.Notes[head].TimeEnd = timeUs
				chart.Notes[head].PairIndex = len(chart.Notes)
				chart.Notes = append(chart.Notes, game.Note{
					Lane:      lane,
					Type:      game.NoteLong,
					Time:      timeUs,
					WavID:     uint16(o.value),
					PairIndex: head,
				})
			}
			return
		}
		chart.Notes = append(chart.Notes, game.Note{
			Lane:      lane,
			Type:      game.NoteNormal,
			Time:      timeUs,
			WavID:     uint16(o.value),
			PairIndex: game.NoPair,
		})
		lastNote[lane] = len(chart.Notes) - 1
	case 3:
		chart.Notes = append(chart.Notes, game.Note{
			Lane:      lane,
			Type:      game.NoteInvisible,
			Time:      timeUs,
			WavID:     uint16(o.value),
			PairIndex: game.NoPair,
		})
	case 5:
		if head, ok := lnHead[lane]; ok {
			chart.Notes[head].TimeEnd = timeUs
			chart.Notes[head].PairIndex = len(chart.Notes)
			chart.Notes = append(chart.Notes, game.Note{
				Lane:      lane,
				Type:      game.NoteLong,
				Time:      timeUs,
				WavID:     uint16(o.value),
				PairIndex: head,
			})
			delete(lnHead, lane)
		} else {
			chart.Notes = append(chart.Notes, game.Note{
				Lane:      lane,
				Type:      game.NoteLong,
				Time:      timeUs,
				WavID:     uint16(o.value),
				PairIndex: game.NoPair,
			})
			lnHead[lane] = len(chart.Notes) - 1
		}
	case 0xd:
		chart.Notes = append(chart.Notes, game.Note{
			Lane:      lane,
			Type:      game.NoteMine,
			Time:      timeUs,
			Damage:    int32(o.value / 2),
			PairIndex: game.NoPair,
		})
	}
}

func skipLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, p := range skipPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func splitHeader(line string) (string, string) {
	body := line[1:]
	i := strings.IndexByte(body, ' ')
	if i < 0 {
		return strings.ToUpper(body), ""
	}
	return strings.ToUpper(body[:i]), strings.TrimSpace(body[i+1:])
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func base36(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		case c >= 'a' && c <= 'z':
			v = int(c-'a') + 10
		default:
			return -1
		}
		n = n*36 + v
	}
	return n
}
