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
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// A PSF given as a sampled image, centered on the middle of the data array.
// The data may be oversampled by integral factors w.r.t. the detector pixels.
// Values between samples are interpolated bilinearly, outside the data the PSF is zero.
type ImagePSF struct {
	data   *mat.Dense // normalized so that the samples sum up to oy*ox
	oy, ox int
}

var imagePSFParams = []string{"flux", "x_0", "y_0"}

// Creates an image PSF from the given data and oversampling factors.
// The data is copied and normalized to unit flux.
func NewImagePSF(data *mat.Dense, oy, ox int) (*ImagePSF, error) {
	if oy < 1 || ox < 1 {
		return nil, fmt.Errorf("invalid oversampling %dx%d", oy, ox)
	}
	ny, nx := data.Dims()
	if ny < 2 || nx < 2 {
		return nil, fmt.Errorf("PSF data of shape %dx%d too small", ny, nx)
	}
	norm := mat.DenseCopyOf(data)
	sum := floats.Sum(norm.RawMatrix().Data)
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, errors.New("PSF data cannot be normalized")
	}
	norm.Scale(float64(oy*ox)/sum, norm)
	return &ImagePSF{data: norm, oy: oy, ox: ox}, nil
}

// Samples the given model on an oversampled grid of ny x nx detector pixels,
// centered on the origin, and returns it as an image PSF.
func SampleImagePSF(m Model, p Params, ny, nx, oversampling int) (*ImagePSF, error) {
	if oversampling < 1 {
		return nil, fmt.Errorf("invalid oversampling %d", oversampling)
	}
	p = Resolve(m, p)
	dny, dnx := ny*oversampling, nx*oversampling
	cy, cx := float64(dny-1)/2, float64(dnx-1)/2
	data := mat.NewDense(dny, dnx, nil)
	for row := 0; row < dny; row++ {
		y := (float64(row) - cy) / float64(oversampling)
		for col := 0; col < dnx; col++ {
			x := (float64(col) - cx) / float64(oversampling)
			data.Set(row, col, m.Eval(x, y, p))
		}
	}
	return NewImagePSF(data, oversampling, oversampling)
}

func (m *ImagePSF) Name() string         { return "ImagePSF" }
func (m *ImagePSF) ParamNames() []string { return imagePSFParams }

func (m *ImagePSF) Defaults() Params {
	return Params{"flux": 1, "x_0": 0, "y_0": 0}
}

func (m *ImagePSF) DataShape() (ny, nx int)    { return m.data.Dims() }
func (m *ImagePSF) Oversampling() (oy, ox int) { return m.oy, m.ox }

func (m *ImagePSF) Eval(x, y float64, p Params) float64 {
	ny, nx := m.data.Dims()
	dx := (x-p["x_0"])*float64(m.ox) + float64(nx-1)/2
	dy := (y-p["y_0"])*float64(m.oy) + float64(ny-1)/2

	// perform bilinear interpolation
	xl, yl := int(math.Floor(dx)), int(math.Floor(dy))
	xh, yh := xl+1, yl+1
	xr, yr := dx-float64(xl), dy-float64(yl)
	if xl < 0 || xh >= nx || yl < 0 || yh >= ny {
		return 0
	}

	d := m.data
	vyl := d.At(yl, xl)*(1-xr) + d.At(yl, xh)*xr
	vyh := d.At(yh, xl)*(1-xr) + d.At(yh, xh)*xr
	v := vyl*(1-yr) + vyh*yr
	return p["flux"] * v
}
