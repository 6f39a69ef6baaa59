package input

// #include <linux/input-event-codes.h>
import "C"

import "git.lost.host/meutraa/eotb/internal/game"

// DefaultCodes lists the evdev key codes bound to each physical key,
// matching the rune layouts used for terminal input.
func DefaultCodes(mode game.PlayMode) []uint16 {
	switch mode {
	case game.Beat5K, game.Beat10K:
		return []uint16{
			C.KEY_Z, C.KEY_S, C.KEY_X, C.KEY_D, C.KEY_C,
			C.KEY_Q, C.KEY_W,
		}
	case game.PopN5K, game.PopN9K:
		return []uint16{
			C.KEY_A, C.KEY_S, C.KEY_D, C.KEY_F, C.KEY_G,
			C.KEY_H, C.KEY_J, C.KEY_K, C.KEY_L,
		}
	}
	return []uint16{
		C.KEY_Z, C.KEY_S, C.KEY_X, C.KEY_D, C.KEY_C, C.KEY_F, C.KEY_V,
		C.KEY_Q, C.KEY_W,
	}
}

// Mapper resolves evdev codes to physical key indices.
type Mapper struct {
	codeToKey map[uint16]int
}

func NewMapper(mode game.PlayMode) *Mapper {
	codes := DefaultCodes(mode)
	m := &Mapper{codeToKey: make(map[uint16]int, len(codes))}
	for i, c := range codes {
		m.codeToKey[c] = i
	}
	return m
}

// Key returns -1 for unbound codes.
func (m *Mapper) Key(code uint16) int {
	k, ok := m.codeToKey[code]
	if !ok {
		return -1
	}
	return k
}
