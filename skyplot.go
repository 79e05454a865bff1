package main

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	maskedColor  = color.RGBA{R: 1, G: 1, B: 1, A: 255}
	horizonColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	zenithColor  = color.RGBA{R: 200, G: 200, B: 255, A: 255}
	failedColor  = color.RGBA{R: 255, G: 120, B: 120, A: 255}
)

// gradientColor linearly interpolates from a to b for t in [0, 1].
func gradientColor(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// patchColor returns the display color of patch p. Visible patches
// shade from white at the horizon to light blue at the zenith.
func patchColor(p *SkyPatch, state Occlusion) color.Color {
	switch state {
	case Masked:
		return maskedColor
	case Unknown:
		return failedColor
	}
	mid := (p.MinAltitude + p.MaxAltitude) / 2
	return gradientColor(horizonColor, zenithColor, mid/(math.Pi/2))
}

// skyXY projects a direction onto a stereographic sky chart with the
// zenith at the origin, the horizon on the unit circle, and north up.
func skyXY(altitude, azimuth float64) plotter.XY {
	r := math.Tan((math.Pi/2 - altitude) / 2)
	return plotter.XY{X: r * math.Sin(azimuth), Y: r * math.Cos(azimuth)}
}

// patchOutline returns the outline of p on the sky chart.
func patchOutline(p *SkyPatch) plotter.XYs {
	const steps = 8
	var xys plotter.XYs
	span := p.EndAzimuth - p.StartAzimuth
	for i := 0; i <= steps; i++ {
		xys = append(xys, skyXY(p.MinAltitude, p.StartAzimuth+span*float64(i)/steps))
	}
	for i := steps; i >= 0; i-- {
		xys = append(xys, skyXY(p.MaxAltitude, p.StartAzimuth+span*float64(i)/steps))
	}
	return xys
}

// Plot draws the sky mask as a stereographic sky chart. If exp is not
// nil, the sun's hourly positions are drawn on top.
func (r *SkyMaskResult) Plot(exp *SunExposure) (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Sky view %s%%, masked %s%%", FormatPercent(r.PercentVisible), FormatPercent(r.PercentMasked))
	plt.HideAxes()
	plt.X.Min, plt.X.Max = -1.05, 1.05
	plt.Y.Min, plt.Y.Max = -1.05, 1.05

	for i, p := range r.Dome.Patches {
		poly, err := plotter.NewPolygon(patchOutline(p))
		if err != nil {
			return nil, err
		}
		poly.Color = patchColor(p, r.States[i])
		poly.LineStyle.Width = vg.Points(0.25)
		poly.LineStyle.Color = color.Gray{Y: 160}
		plt.Add(poly)
	}

	if exp != nil {
		var lit, shaded plotter.XYs
		const deg2rad = math.Pi / 180
		for _, h := range exp.Hours {
			if !h.Up() {
				continue
			}
			xy := skyXY(h.Altitude*deg2rad, h.Azimuth*deg2rad)
			if h.State == Masked {
				shaded = append(shaded, xy)
			} else {
				lit = append(lit, xy)
			}
		}
		for _, s := range []struct {
			xys plotter.XYs
			col color.Color
		}{
			{shaded, color.RGBA{R: 120, G: 120, B: 120, A: 255}},
			{lit, color.RGBA{R: 255, G: 160, B: 0, A: 255}},
		} {
			if len(s.xys) == 0 {
				continue
			}
			sc, err := plotter.NewScatter(s.xys)
			if err != nil {
				return nil, err
			}
			sc.GlyphStyle.Color = s.col
			sc.GlyphStyle.Radius = vg.Points(0.8)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			plt.Add(sc)
		}
	}
	return plt, nil
}
