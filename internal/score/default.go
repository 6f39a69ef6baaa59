package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/rule"
)

type DefaultScorer struct {
	db *sql.DB
}

// compactGhost run-length encodes the per-note judgements; charts are
// long stretches of the same tier.
func compactGhost(ghost []int8) []byte {
	out := []byte{}
	for i := 0; i < len(ghost); {
		j := i
		for j < len(ghost) && ghost[j] == ghost[i] {
			j++
		}
		run := make([]byte, binary.MaxVarintLen32+1)
		run[0] = byte(ghost[i])
		n := binary.PutUvarint(run[1:], uint64(j-i))
		out = append(out, run[:n+1]...)
		i = j
	}
	return out
}

func uncompactGhost(data []byte) []int8 {
	ghost := []int8{}
	for len(data) > 0 {
		tier := int8(data[0])
		run, n := binary.Uvarint(data[1:])
		if n <= 0 {
			break
		}
		for i := uint64(0); i < run; i++ {
			ghost = append(ghost, tier)
		}
		data = data[1+n:]
	}
	return ghost
}

func (s *DefaultScorer) Init() error {
	db, err := sql.Open("sqlite3", "./scores.db")
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists scores
	  (
		  id text not null primary key,
		  sum text not null,
		  clear integer,
		  exscore integer,
		  rate real,
		  judges text,
		  ghost bytearray,
		  played_at integer
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// hashChart identifies a chart by its note content, so re-tagged copies
// of the same chart share a history.
func (s *DefaultScorer) hashChart(c *game.Chart) string {
	h := sha256.New()
	var buf [8]byte
	for i := range c.Notes {
		n := &c.Notes[i]
		binary.LittleEndian.PutUint64(buf[:], uint64(n.Time))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(n.TimeEnd))
		h.Write(buf[:])
		h.Write([]byte{byte(n.Lane), byte(n.Type)})
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultScorer) Save(chart *game.Chart, result *Result) error {
	judges, err := json.Marshal(result.Data)
	if nil != err {
		return err
	}
	result.ID = uuid.NewString()
	result.Sum = s.hashChart(chart)
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now()
	}
	_, err = s.db.Exec(
		"insert into scores(id, sum, clear, exscore, rate, judges, ghost, played_at) values(?, ?, ?, ?, ?, ?, ?, ?)",
		result.ID, result.Sum, uint8(result.Clear), result.Data.ExScore(),
		result.Rate, judges, compactGhost(result.Ghost), result.PlayedAt.Unix())
	return err
}

func (s *DefaultScorer) Load(chart *game.Chart) ([]Result, error) {
	results := []Result{}
	rows, err := s.db.Query(
		"select id, sum, clear, rate, judges, ghost, played_at from scores where sum = ? order by exscore desc",
		s.hashChart(chart))
	if nil != err {
		if err == sql.ErrNoRows {
			return results, nil
		}
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		var clear uint8
		var judges []byte
		var ghost []byte
		var playedAt int64
		if err := rows.Scan(&r.ID, &r.Sum, &clear, &r.Rate, &judges, &ghost, &playedAt); nil != err {
			log.Error("unable to scan score row", "err", err)
			continue
		}
		if err := json.Unmarshal(judges, &r.Data); nil != err {
			log.Error("unable to unmarshal judge history", "err", err)
			continue
		}
		r.Clear = rule.ClearTypeFromID(clear)
		r.Ghost = uncompactGhost(ghost)
		r.PlayedAt = time.Unix(playedAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *DefaultScorer) Best(chart *game.Chart) (*Result, bool) {
	results, err := s.Load(chart)
	if nil != err {
		log.Error("unable to load best score", "err", err)
		return nil, false
	}
	if len(results) == 0 {
		return nil, false
	}
	return &results[0], true
}

// BestClear keeps the strongest clear lamp across a history.
func BestClear(results []Result) rule.ClearType {
	best := rule.NoPlay
	for _, r := range results {
		if r.Clear > best {
			best = r.Clear
		}
	}
	return best
}
