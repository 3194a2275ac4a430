package timerview

import (
	"image/color"
	"math"
)

var (
	workColor  = color.NRGBA{R: 229, G: 72, B: 58, A: 255}
	breakColor = color.NRGBA{R: 64, G: 170, B: 110, A: 255}
	trackColor = color.NRGBA{R: 128, G: 128, B: 128, A: 60}
	textColor  = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
)

const ringThickness = 0.12

// ringPixel colors one pixel of the circular progress ring. Progress runs
// clockwise from twelve o'clock.
func ringPixel(x, y, w, h int, progress float64, isWork bool) color.Color {
	side := math.Min(float64(w), float64(h))
	outer := side/2 - 1
	if outer <= 0 {
		return color.Transparent
	}
	inner := outer * (1 - ringThickness)

	dx := float64(x) + 0.5 - float64(w)/2
	dy := float64(y) + 0.5 - float64(h)/2
	distance := math.Hypot(dx, dy)
	if distance < inner || distance > outer {
		return color.Transparent
	}

	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle/(2*math.Pi) <= progress {
		if isWork {
			return workColor
		}
		return breakColor
	}
	return trackColor
}
