// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package model

import (
	"math"
)

// Number of standard deviations covered by the bounding box of Gaussian models
const GaussianBoxFactor = 5.5

// Elliptical, rotated 2D Gaussian with peak amplitude.
// Theta is the counterclockwise rotation of the x_stddev axis, in radians.
type Gaussian2D struct {
	defaults Params
}

var gaussian2DParams = []string{"amplitude", "x_mean", "y_mean", "x_stddev", "y_stddev", "theta"}

// Creates a 2D Gaussian with the given default standard deviations
func NewGaussian2D(xStddev, yStddev float64) *Gaussian2D {
	return &Gaussian2D{defaults: Params{
		"amplitude": 1,
		"x_mean":    0,
		"y_mean":    0,
		"x_stddev":  xStddev,
		"y_stddev":  yStddev,
		"theta":     0,
	}}
}

func (g *Gaussian2D) Name() string         { return "Gaussian2D" }
func (g *Gaussian2D) ParamNames() []string { return gaussian2DParams }
func (g *Gaussian2D) Defaults() Params     { return g.defaults.Clone() }

func (g *Gaussian2D) Eval(x, y float64, p Params) float64 {
	cost2 := math.Cos(p["theta"])
	cost2 *= cost2
	sint2 := math.Sin(p["theta"])
	sint2 *= sint2
	sin2t := math.Sin(2 * p["theta"])
	xstd2 := p["x_stddev"] * p["x_stddev"]
	ystd2 := p["y_stddev"] * p["y_stddev"]
	xdiff := x - p["x_mean"]
	ydiff := y - p["y_mean"]

	a := 0.5 * (cost2/xstd2 + sint2/ystd2)
	b := 0.5 * (sin2t/xstd2 - sin2t/ystd2)
	c := 0.5 * (sint2/xstd2 + cost2/ystd2)
	return p["amplitude"] * math.Exp(-(a*xdiff*xdiff + b*xdiff*ydiff + c*ydiff*ydiff))
}

// Bounding box covering GaussianBoxFactor standard deviations along the rotated axes
func (g *Gaussian2D) BoundingBox(p Params) BBox {
	a := GaussianBoxFactor * p["x_stddev"]
	b := GaussianBoxFactor * p["y_stddev"]
	dx, dy := EllipseExtent(a, b, p["theta"])
	return BBox{
		XMin: p["x_mean"] - dx, XMax: p["x_mean"] + dx,
		YMin: p["y_mean"] - dy, YMax: p["y_mean"] + dy,
	}
}

// EllipseExtent returns the half-widths of the axis-aligned box enclosing an
// ellipse with semi-axes a and b, rotated by theta radians.
func EllipseExtent(a, b, theta float64) (dx, dy float64) {
	sint, cost := math.Sincos(theta)

	t := math.Atan2(-b*math.Tan(theta), a)
	dx = a*math.Cos(t)*cost - b*math.Sin(t)*sint

	t = math.Atan2(b, a*math.Tan(theta))
	dy = b*math.Sin(t)*cost + a*math.Cos(t)*sint

	return math.Abs(dx), math.Abs(dy)
}

// Flux of a 2D Gaussian with given peak amplitude and standard deviations
func GaussianFlux(amplitude, xStddev, yStddev float64) float64 {
	return amplitude * 2 * math.Pi * xStddev * yStddev
}

// Peak amplitude of a 2D Gaussian with given flux and standard deviations
func GaussianAmplitude(flux, xStddev, yStddev float64) float64 {
	return flux / (2 * math.Pi * xStddev * yStddev)
}
