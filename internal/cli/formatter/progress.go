package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/repforge/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	mrvMarker   = "│"
)

// RenderVolumeBar draws weekly sets against the landmarks, scaled so the
// MRV sits at the right edge. Work beyond MRV is drawn as overflow after a
// marker. The bar takes the zone's color.
func RenderVolumeBar(sets int, l domain.VolumeLandmarks, width int) string {
	if width < 2 {
		width = 2
	}
	if sets < 0 {
		sets = 0
	}
	ceiling := max(l.MRV, 1)
	filled := min(sets*width/ceiling, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := ZoneStyle(l.Zone(sets))
	out := "[" + style.Render(bar) + "]"
	if over := sets - l.MRV; over > 0 {
		out += style.Render(mrvMarker + fmt.Sprintf("+%d", over))
	}
	return out
}
