package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderVolumeBar(t *testing.T) {
	chest := domain.VolumeLandmarks{MEV: 10, MAV: 16, MRV: 22}

	tests := []struct {
		name       string
		sets       int
		wantFilled int
		overflow   string
	}{
		{"empty", 0, 0, ""},
		{"half of mrv", 11, 5, ""},
		{"at mrv", 22, 10, ""},
		{"above mrv", 25, 10, "+3"},
		{"negative clamps", -4, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderVolumeBar(tt.sets, chest, 10))
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			assert.Equal(t, 10-tt.wantFilled, strings.Count(got, emptyBlock))
			if tt.overflow != "" {
				assert.Contains(t, got, tt.overflow)
			} else {
				assert.NotContains(t, got, "+")
			}
		})
	}
}

func TestRenderVolumeBar_ZeroLandmarks(t *testing.T) {
	got := stripANSI(RenderVolumeBar(3, domain.VolumeLandmarks{}, 1))
	assert.Equal(t, 2, strings.Count(got, filledBlock))
	assert.Contains(t, got, "+3")
}
