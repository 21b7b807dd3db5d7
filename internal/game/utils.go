package game

import (
	"image/color"
	"time"

	"github.com/hako/durafmt"

	"github.com/iburimskiy/wavesketch/internal/gesture"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as its two largest units, e.g. "1s 200ms".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// hueColor is the color at hue h (degrees) with the given alpha.
func hueColor(h, s, v float64, alpha uint8) color.RGBA {
	r, g, b := gesture.HSVToRGB(h, s, v)
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}

// withAlpha scales c's alpha by a in [0, 1].
func withAlpha(c color.RGBA, a float64) color.RGBA {
	c.A = uint8(float64(c.A) * clamp01(a))
	return c
}
