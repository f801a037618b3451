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

// Circular 2D Gaussian integrated over the unit square of each pixel.
// Parameterized by total flux rather than peak amplitude.
type IntegratedGaussianPRF struct {
	defaults Params
}

var prfParams = []string{"flux", "x_0", "y_0", "sigma"}

func NewIntegratedGaussianPRF(sigma float64) *IntegratedGaussianPRF {
	return &IntegratedGaussianPRF{defaults: Params{
		"flux":  1,
		"x_0":   0,
		"y_0":   0,
		"sigma": sigma,
	}}
}

func (g *IntegratedGaussianPRF) Name() string         { return "IntegratedGaussianPRF" }
func (g *IntegratedGaussianPRF) ParamNames() []string { return prfParams }
func (g *IntegratedGaussianPRF) Defaults() Params     { return g.defaults.Clone() }

func (g *IntegratedGaussianPRF) Eval(x, y float64, p Params) float64 {
	s := math.Sqrt2 * p["sigma"]
	dx, dy := x-p["x_0"], y-p["y_0"]
	fx := math.Erf((dx+0.5)/s) - math.Erf((dx-0.5)/s)
	fy := math.Erf((dy+0.5)/s) - math.Erf((dy-0.5)/s)
	return p["flux"] / 4 * fx * fy
}

func (g *IntegratedGaussianPRF) BoundingBox(p Params) BBox {
	d := GaussianBoxFactor * p["sigma"]
	return BBox{
		XMin: p["x_0"] - d, XMax: p["x_0"] + d,
		YMin: p["y_0"] - d, YMax: p["y_0"] + d,
	}
}
