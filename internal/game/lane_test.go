package game

import "testing"

func TestLanePropertyRoundTrip(t *testing.T) {
	modes := []PlayMode{
		Beat5K, Beat7K, Beat10K, Beat14K,
		PopN5K, PopN9K, Keyboard24K, Keyboard24KDouble,
	}
	for _, mode := range modes {
		p := NewLaneProperty(mode)
		if p.LaneCount() != mode.LaneCount() {
			t.Logf("%v lane count = %v, expected %v", mode, p.LaneCount(), mode.LaneCount())
			t.Fail()
		}
		for lane := 0; lane < p.LaneCount(); lane++ {
			for _, key := range p.LaneToKeys(lane) {
				if p.KeyToLane(key) != lane {
					t.Logf("%v key %v maps to lane %v, expected %v",
						mode, key, p.KeyToLane(key), lane)
					t.Fail()
				}
			}
		}
	}
}

func TestLanePropertyBeat7KScratch(t *testing.T) {
	p := NewLaneProperty(Beat7K)
	if p.PhysicalKeyCount() != 9 {
		t.Logf("physical keys = %v, expected 9", p.PhysicalKeyCount())
		t.Fail()
	}
	keys := p.LaneToKeys(7)
	if len(keys) != 2 || keys[0] != 7 || keys[1] != 8 {
		t.Logf("scratch keys = %v, expected [7 8]", keys)
		t.Fail()
	}
	if p.ScratchIndex(7) != 0 {
		t.Logf("scratch index = %v, expected 0", p.ScratchIndex(7))
		t.Fail()
	}
	if p.ScratchIndex(0) != -1 {
		t.Logf("lane 0 scratch index = %v, expected -1", p.ScratchIndex(0))
		t.Fail()
	}
	if p.LaneSkinOffset(7) != 0 || p.LaneSkinOffset(0) != 1 {
		t.Log("scratch renders in slot 0, keys from slot 1")
		t.Fail()
	}
}

func TestLanePropertyDoubleSides(t *testing.T) {
	p := NewLaneProperty(Beat14K)
	if p.ScratchCount() != 2 {
		t.Logf("scratch count = %v, expected 2", p.ScratchCount())
		t.Fail()
	}
	for lane := 0; lane < 8; lane++ {
		if p.LanePlayer(lane) != 0 {
			t.Logf("lane %v player = %v, expected 0", lane, p.LanePlayer(lane))
			t.Fail()
		}
	}
	for lane := 8; lane < 16; lane++ {
		if p.LanePlayer(lane) != 1 {
			t.Logf("lane %v player = %v, expected 1", lane, p.LanePlayer(lane))
			t.Fail()
		}
	}
}
