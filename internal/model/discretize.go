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
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Discretize evaluates the model with the given parameters on a new ny x nx pixel grid.
// A factor of 1 samples pixel centers, larger factors average factor x factor
// subpixel samples per pixel.
func Discretize(m Model, p Params, ny, nx, factor int) (*mat.Dense, error) {
	if ny < 1 || nx < 1 {
		return nil, fmt.Errorf("invalid shape %dx%d", ny, nx)
	}
	res := mat.NewDense(ny, nx, nil)
	if err := AddTo(res, 0, 0, m, p, factor); err != nil {
		return nil, err
	}
	return res, nil
}

// AddTo adds the discretized model to dst, where dst element (0,0) is detector pixel (x0,y0).
// Parameters are completed from the model defaults.
func AddTo(dst *mat.Dense, x0, y0 int, m Model, p Params, factor int) error {
	if factor < 1 {
		return fmt.Errorf("invalid oversampling factor %d", factor)
	}
	p = Resolve(m, p)
	rows, cols := dst.Dims()

	if factor == 1 {
		for row := 0; row < rows; row++ {
			y := float64(y0 + row)
			for col := 0; col < cols; col++ {
				x := float64(x0 + col)
				dst.Set(row, col, dst.At(row, col)+m.Eval(x, y, p))
			}
		}
		return nil
	}

	// subpixel offsets relative to the pixel center
	offsets := make([]float64, factor)
	for k := range offsets {
		offsets[k] = (float64(k)+0.5)/float64(factor) - 0.5
	}
	norm := 1 / float64(factor*factor)

	for row := 0; row < rows; row++ {
		y := float64(y0 + row)
		for col := 0; col < cols; col++ {
			x := float64(x0 + col)
			sum := 0.0
			for _, oy := range offsets {
				for _, ox := range offsets {
					sum += m.Eval(x+ox, y+oy, p)
				}
			}
			dst.Set(row, col, dst.At(row, col)+sum*norm)
		}
	}
	return nil
}
