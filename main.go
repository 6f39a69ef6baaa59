package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"git.lost.host/meutraa/eotb/internal/config"
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/gauge"
	"git.lost.host/meutraa/eotb/internal/input"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/parser"
	"git.lost.host/meutraa/eotb/internal/render"
	"git.lost.host/meutraa/eotb/internal/rule"
	"git.lost.host/meutraa/eotb/internal/score"
	"git.lost.host/meutraa/eotb/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatal("unrecoverable", "err", err)
	}
}

// chartTime converts wall clock progress into chart µs at the playback rate.
func chartTime(duration time.Duration) int64 {
	return int64(math.Round(float64((duration + *config.Offset).Microseconds()) * (*config.Rate)))
}

func clearFor(groove *gauge.Groove, data *judge.ScoreData) rule.ClearType {
	if !groove.IsQualified() {
		return rule.Failed
	}
	clear := rule.ClearTypeForGauge(groove.ActiveType())
	if groove.IsTypeChanged() {
		return clear
	}
	switch {
	case data.JudgeCount(judge.Great)+data.JudgeCount(judge.Good)+data.BadPoorCount() == 0:
		return rule.Max
	case data.JudgeCount(judge.Good)+data.BadPoorCount() == 0:
		return rule.Perfect
	case data.MaxCombo >= data.Notes && clear < rule.FullCombo:
		return rule.FullCombo
	}
	return clear
}

func findFiles(dir string) (chartFile, audioFile string, err error) {
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".bms", ".bme", ".bml", ".pms":
			chartFile = p
		case ".mp3", ".ogg", ".wav":
			audioFile = p
		}
		return nil
	})
	return
}

func openAudio(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	switch path.Ext(file) {
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return mp3.Decode(f)
}

func run() error {
	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}
	var psr parser.Parser = &parser.DefaultParser{}
	var scr score.Scorer = &score.DefaultScorer{}

	chartFile, audioFile, err := findFiles(*config.Directory)
	if nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}
	if chartFile == "" {
		return errors.New("unable to find a chart file in given directory")
	}

	chart, err := psr.Parse(chartFile)
	if nil != err {
		return fmt.Errorf("unable to parse %v: %w", chartFile, err)
	}

	if err = scr.Init(); nil != err {
		return fmt.Errorf("unable to open score database: %w", err)
	}
	defer scr.Deinit()

	lanes := game.NewLaneProperty(chart.Mode)

	playerRule := rule.ForMode(chart.Mode)
	if *config.Lr2 {
		playerRule = rule.Lr2()
	}

	total := chart.Total
	if total <= 0 {
		total = rule.DefaultTotal(chart.NoteCount)
	}

	rankType := judge.BmsRank
	rank := int32(chart.Rank)
	if chart.DefExRank > 0 {
		rankType = judge.BmsDefExRank
		rank = int32(chart.DefExRank)
	}

	windowRate := [3]int32{*config.WindowRate, *config.WindowRate, *config.WindowRate}
	scratchRate := [3]int32{*config.ScratchWindowRate, *config.ScratchWindowRate, *config.ScratchWindowRate}

	manager := judge.NewManager(&judge.Config{
		Notes:             chart.Notes,
		PlayMode:          chart.Mode,
		LnType:            config.LnMode(chart.LnMode),
		JudgeRank:         rank,
		RankType:          rankType,
		WindowRate:        windowRate,
		ScratchWindowRate: scratchRate,
		Algorithm:         config.Algorithm(),
		Autoplay:          *config.Autoplay,
		Property:          playerRule.Judge,
		Lanes:             lanes,
	})
	groove := gauge.NewGroove(playerRule.Gauge, config.GaugeType(), total, chart.NoteCount)

	if best, ok := scr.Best(chart); ok {
		history, _ := scr.Load(chart)
		log.Info("personal best",
			"exscore", best.Data.ExScore(),
			"clear", best.Clear.String(),
			"lamp", score.BestClear(history).String())
	}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Error("unable to close keyboard", "err", err)
		}
	}()

	deviceEvents := make(chan *input.Event, 256)
	mapper := input.NewMapper(chart.Mode)
	if *config.Device != "" {
		if err := input.ReadInput(*config.Device, deviceEvents); nil != err {
			return fmt.Errorf("unable to open input device: %w", err)
		}
	}

	var streamer beep.StreamSeekCloser
	if audioFile != "" {
		var format beep.Format
		streamer, format, err = openAudio(audioFile)
		if nil != err {
			return err
		}
		defer streamer.Close()
		speaker.Init(
			beep.SampleRate(math.Round(float64(format.SampleRate)*(*config.Rate))),
			format.SampleRate.N(time.Second/60))
	}

	if err = r.Init(); nil != err {
		return err
	}
	defer r.Deinit()

	if streamer != nil {
		go func() {
			time.Sleep(*config.Delay)
			speaker.Play(streamer)
		}()
	}

	_, rows := r.Size()
	hitRow := rows - int(*config.BarRow)
	cen := rows >> 1
	usPerRow := 50000.0 / *config.HiSpeed
	leftCol := 4
	laneCol := func(lane int) int { return leftCol + lane*4 }
	sideCol := laneCol(lanes.LaneCount()) + 8

	keyStates := make([]bool, lanes.PhysicalKeyCount())
	keyChangedTimes := make([]int64, lanes.PhysicalKeyCount())
	prevRows := make([]int, len(chart.Notes))
	endTime := chart.LastTime() + 3000000
	keyHeld := make([]time.Time, lanes.PhysicalKeyCount())

	var startEpochUs int64

	r.RenderLoop(*config.Delay, func(startTime time.Time, duration time.Duration) bool {
		if startEpochUs == 0 {
			startEpochUs = startTime.UnixMicro()
		}
		timeUs := chartTime(duration)
		if timeUs > endTime {
			return false
		}

		for i := range keyChangedTimes {
			keyChangedTimes[i] = game.NotSet
		}

		// Device input carries kernel timestamps; terminal input is
		// stamped with the frame it arrived on.
		for done := false; !done; {
			select {
			case ev := <-deviceEvents:
				key := mapper.Key(ev.Code)
				if key < 0 || key >= len(keyStates) {
					continue
				}
				if ev.Pressed == keyStates[key] {
					continue
				}
				keyStates[key] = ev.Pressed
				keyChangedTimes[key] = int64(math.Round(
					float64(ev.TimeUs()-startEpochUs+config.Offset.Microseconds()) * (*config.Rate)))
			default:
				done = true
			}
		}
		for i := 0; i < len(keyChannel); i++ {
			key := <-keyChannel
			if key.Key == keyboard.KeyEsc {
				return false
			}
			idx := config.KeyIndex(key.Rune, chart.Mode)
			if idx < 0 || idx >= len(keyStates) {
				continue
			}
			// Terminal input has no release events, so a press is held
			// for a beat and re-presses extend it.
			keyStates[idx] = true
			keyChangedTimes[idx] = timeUs
			keyHeld[idx] = time.Now().Add(150 * time.Millisecond)
		}
		if *config.Device == "" {
			now := time.Now()
			for i := range keyStates {
				if keyStates[i] && keyChangedTimes[i] == game.NotSet && now.After(keyHeld[i]) {
					keyStates[i] = false
					keyChangedTimes[i] = timeUs
				}
			}
		}

		events := manager.Update(timeUs, chart.Notes, keyStates, keyChangedTimes, groove)
		for _, ev := range events {
			switch ev.Kind {
			case judge.EventJudge:
				r.AddDecoration(sideCol, cen, th.RenderJudge(ev.Tier), 60)
			case judge.EventMineDamage:
				groove.AddValue(-float32(ev.Damage))
			}
		}

		if groove.ActiveType() == gauge.Hazard && groove.ActiveGauge().IsDead() {
			return false
		}

		// Hit bar
		for lane := 0; lane < lanes.LaneCount(); lane++ {
			r.Fill(hitRow, laneCol(lane), th.RenderHitField(lanes.LaneSkinOffset(lane)))
		}

		// Notes
		for i := range chart.Notes {
			note := &chart.Notes[i]
			col := laneCol(note.Lane)
			if prevRows[i] > 0 && prevRows[i] < rows {
				r.Fill(prevRows[i], col, " ")
				prevRows[i] = 0
			}
			if manager.NoteState(i) != 0 {
				continue
			}
			row := hitRow - int(math.Round(float64(note.Time-timeUs)/usPerRow))
			if row <= 0 || row >= rows {
				continue
			}
			prevRows[i] = row
			switch note.Type {
			case game.NoteMine:
				r.Fill(row, col, th.RenderMine())
			case game.NoteInvisible:
			default:
				if note.TimeEnd == 0 && note.IsLongNote() {
					r.Fill(row, col, th.RenderLongBody(lanes.LaneSkinOffset(note.Lane)))
				} else {
					r.Fill(row, col, th.RenderNote(lanes.LaneSkinOffset(note.Lane)))
				}
			}
		}

		// Side panel
		data := manager.Score()
		r.Fill(2, sideCol, fmt.Sprintf("%v / %v", chart.Title, chart.Artist))
		r.Fill(4, sideCol, th.RenderGauge(groove.Value(), groove.IsQualified()))
		r.Fill(6, sideCol, fmt.Sprintf("   EX SCORE:  %6v", data.ExScore()))
		r.Fill(7, sideCol, fmt.Sprintf("      COMBO:  %6v", manager.Combo()))
		r.Fill(8, sideCol, fmt.Sprintf("  MAX COMBO:  %6v", manager.MaxCombo()))
		r.Fill(9, sideCol, fmt.Sprintf("      NOTES:  %6v / %v", manager.PassNotes(), data.Notes))
		for tier := judge.PGreat; tier <= judge.Poor; tier++ {
			r.Fill(11+tier, sideCol, fmt.Sprintf("%v:  %6v",
				th.RenderJudge(tier), data.JudgeCount(tier)))
		}

		return true
	})

	result := &score.Result{
		Clear: clearFor(groove, manager.Score()),
		Data:  manager.FinalScore(),
		Ghost: manager.Ghost(),
		Rate:  *config.Rate,
	}
	if *config.Autoplay {
		result.Clear = rule.NoPlay
	}
	if err := scr.Save(chart, result); nil != err {
		log.Error("unable to save score", "err", err)
	}

	log.Info("finished",
		"clear", result.Clear.String(),
		"exscore", result.Data.ExScore(),
		"maxcombo", result.Data.MaxCombo,
		"bp", result.Data.BadPoorCount())
	return nil
}
