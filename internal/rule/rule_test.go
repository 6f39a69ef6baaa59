package rule

import (
	"testing"

	"git.lost.host/meutraa/eotb/internal/gauge"
)

func TestDefaultTotal(t *testing.T) {
	tests := []struct {
		notes    int
		expected float64
	}{
		{0, 160},
		{200, 192},
		{400, 224},
		{600, 288},
		{800, 320},
		// The bonus term saturates at 200 extra notes.
		{1000, 352},
	}
	for _, tt := range tests {
		got := DefaultTotal(tt.notes)
		if d := got - tt.expected; d > 1e-9 || d < -1e-9 {
			t.Logf("DefaultTotal(%v) = %v, expected %v", tt.notes, got, tt.expected)
			t.Fail()
		}
	}
}

func TestClearTypeForGauge(t *testing.T) {
	tests := []struct {
		gauge    gauge.Type
		expected ClearType
	}{
		{gauge.AssistEasy, LightAssistEasyClear},
		{gauge.Easy, EasyClear},
		{gauge.Normal, NormalClear},
		{gauge.Class, NormalClear},
		{gauge.Hard, HardClear},
		{gauge.ExClass, HardClear},
		{gauge.ExHard, ExHardClear},
		{gauge.ExHardClass, ExHardClear},
		{gauge.Hazard, FullCombo},
	}
	for _, tt := range tests {
		got := ClearTypeForGauge(tt.gauge)
		if got != tt.expected {
			t.Logf("ClearTypeForGauge(%v) = %v, expected %v", tt.gauge, got, tt.expected)
			t.Fail()
		}
	}
}

func TestClearTypeFromID(t *testing.T) {
	for id := uint8(0); id <= uint8(Max); id++ {
		if ClearTypeFromID(id) != ClearType(id) {
			t.Logf("ClearTypeFromID(%v) = %v", id, ClearTypeFromID(id))
			t.Fail()
		}
	}
	if ClearTypeFromID(200) != NoPlay {
		t.Log("out of range ids must map to NO PLAY")
		t.Fail()
	}
}
