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

// Moffat profile, a seeing-limited star with heavier wings than a Gaussian
type Moffat2D struct{}

var moffatParams = []string{"amplitude", "x_0", "y_0", "gamma", "alpha"}

func NewMoffat2D() *Moffat2D { return &Moffat2D{} }

func (m *Moffat2D) Name() string         { return "Moffat2D" }
func (m *Moffat2D) ParamNames() []string { return moffatParams }

func (m *Moffat2D) Defaults() Params {
	return Params{"amplitude": 1, "x_0": 0, "y_0": 0, "gamma": 1, "alpha": 1}
}

func (m *Moffat2D) Eval(x, y float64, p Params) float64 {
	dx, dy := x-p["x_0"], y-p["y_0"]
	rr := (dx*dx + dy*dy) / (p["gamma"] * p["gamma"])
	return p["amplitude"] * math.Pow(1+rr, -p["alpha"])
}

// Full width at half maximum for the given parameters
func (m *Moffat2D) FWHM(p Params) float64 {
	return 2 * math.Abs(p["gamma"]) * math.Sqrt(math.Pow(2, 1/p["alpha"])-1)
}
