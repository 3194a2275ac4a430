package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"fyne.io/fyne/v2"
)

// Icon names.
const (
	IconApp    = "app"
	IconActive = "active"
	IconPaused = "paused"
	IconBreak  = "break"
)

const iconSize = 64

var iconColors = map[string]color.NRGBA{
	IconApp:    {R: 229, G: 72, B: 58, A: 255},
	IconActive: {R: 229, G: 72, B: 58, A: 255},
	IconPaused: {R: 140, G: 140, B: 140, A: 255},
	IconBreak:  {R: 64, G: 170, B: 110, A: 255},
}

var iconCache sync.Map

// Icon returns the named icon as a PNG resource.
func Icon(name string) (fyne.Resource, error) {
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	fill, ok := iconColors[name]
	if !ok {
		return nil, fmt.Errorf("unknown icon %q", name)
	}

	data, err := renderIcon(fill, iconSize)
	if err != nil {
		return nil, fmt.Errorf("render icon %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(name+".png", data)
	iconCache.Store(name, resource)
	return resource, nil
}

// MustIcon returns an icon resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}

// renderIcon draws a filled disc with a small leaf on top.
func renderIcon(fill color.NRGBA, size int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	leaf := color.NRGBA{R: 76, G: 153, B: 60, A: 255}

	center := float64(size) / 2
	radius := float64(size) * 0.42
	leafCenterX := center
	leafCenterY := center - radius
	leafRadius := float64(size) * 0.12

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			if math.Hypot(px-leafCenterX, (py-leafCenterY)*1.8) <= leafRadius {
				img.SetNRGBA(x, y, leaf)
				continue
			}
			if math.Hypot(px-center, py-center-float64(size)*0.04) <= radius {
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
