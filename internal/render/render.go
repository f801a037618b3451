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

package render

import (
	"fmt"

	"github.com/mlnoga/starfield/internal/model"
	"github.com/mlnoga/starfield/internal/table"
	"gonum.org/v1/gonum/mat"
)

// The (ny, nx) shape of a 2D image. Rows are y, columns are x
type Shape struct {
	NY int `json:"ny"`
	NX int `json:"nx"`
}

// Returns an error if the shape is not a valid 2D image shape
func (s Shape) Validate() error {
	if s.NY < 1 || s.NX < 1 {
		return fmt.Errorf("invalid image shape %dx%d", s.NY, s.NX)
	}
	return nil
}

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.NY, s.NX) }

// Make an image containing sources generated from the given model. Each row of the source table
// defines one source, with parameters taken from the columns matching model parameter names.
// Other columns are ignored, and parameters missing from the table take the model defaults.
//
// With oversample 1, the model is sampled at pixel centers, which does not preserve the total flux
// of very small sources. Larger factors average over an oversample x oversample subpixel grid.
func ModelSourcesImage(shape Shape, m model.Model, sources *table.Table, oversample int) (*mat.Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if oversample < 1 {
		return nil, fmt.Errorf("invalid oversampling factor %d", oversample)
	}
	image := mat.NewDense(shape.NY, shape.NX, nil)

	names := []string{}
	for _, name := range sources.Names() {
		if model.HasParam(m, name) {
			names = append(names, name)
		}
	}

	p := make(model.Params, len(names))
	for i := 0; i < sources.Len(); i++ {
		for _, name := range names {
			p[name] = sources.Column(name)[i]
		}
		if err := model.AddTo(image, 0, 0, m, p, oversample); err != nil {
			return nil, fmt.Errorf("source %d: %s", i, err.Error())
		}
	}
	return image, nil
}

// Adds a constant to all pixels of the image
func AddConstant(image *mat.Dense, c float64) {
	image.Apply(func(i, j int, v float64) float64 { return v + c }, image)
}
