package main

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// Heat map values for each hour.
const (
	hourNight = iota
	hourMasked
	hourVisible
)

// statePalette colors hourNight, hourMasked, and hourVisible.
type statePalette []color.Color

func (p statePalette) Colors() []color.Color { return p }

var exposurePalette = statePalette{
	color.Black,
	color.RGBA{R: 70, G: 70, B: 90, A: 255},
	color.RGBA{R: 255, G: 200, B: 40, A: 255},
}

// HeatMap plots e as a grid of days by hours of the day, colored by
// whether the sun is down, masked, or visible.
func (e *SunExposure) HeatMap() *plot.Plot {
	plt := plot.New()
	plt.Title.Text = "Sun exposure"
	plt.X.Label.Text = "Day"
	plt.Y.Label.Text = "Hour"
	plt.X.Tick.Marker = monthTicks{major: 2}
	plt.Y.Tick.Marker = hourTicks{major: 3}

	hm := plotter.NewHeatMap(&exposureGrid{e}, exposurePalette)
	hm.Min, hm.Max = hourNight, hourVisible
	hm.Rasterized = true
	plt.Add(hm)
	return plt
}

type exposureGrid struct {
	e *SunExposure
}

func (g *exposureGrid) Dims() (c, r int) {
	return len(g.e.Hours) / 24, 24
}

func (g *exposureGrid) Z(c, r int) float64 {
	h := g.e.Hours[c*24+r]
	switch {
	case !h.Up():
		return hourNight
	case h.State == Masked:
		return hourMasked
	}
	return hourVisible
}

// X returns the day of the year of column c.
func (g *exposureGrid) X(c int) float64 {
	return float64(c + 1)
}

// Y returns the middle of the hour of row r. Hour r+1 ends at r+1
// o'clock.
func (g *exposureGrid) Y(r int) float64 {
	return float64(r) + 0.5
}
