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
	"github.com/mlnoga/starfield/internal/model"
	"github.com/mlnoga/starfield/internal/table"
	"gonum.org/v1/gonum/mat"
)

// Make an image containing 2D Gaussian sources. Columns are those of Gaussian2D, plus flux.
// If flux is given but amplitude is not, amplitude is derived from flux and the standard
// deviations. If both are given, flux is ignored. The source table is not modified.
func GaussianSourcesImage(shape Shape, sources *table.Table, oversample int) (*mat.Dense, error) {
	g := model.NewGaussian2D(1, 1)

	if sources.Has("flux") && !sources.Has("amplitude") {
		def := g.Defaults()
		xstd := columnOrDefault(sources, "x_stddev", def["x_stddev"])
		ystd := columnOrDefault(sources, "y_stddev", def["y_stddev"])
		flux := sources.Column("flux")
		amp := make([]float64, len(flux))
		for i, f := range flux {
			amp[i] = model.GaussianAmplitude(f, xstd[i], ystd[i])
		}
		sources = sources.Copy()
		if err := sources.AddColumn("amplitude", amp); err != nil {
			return nil, err
		}
	}

	return ModelSourcesImage(shape, g, sources, oversample)
}

// Make an image containing pixel-integrated 2D Gaussian sources. Columns are those of
// IntegratedGaussianPRF, plus amplitude. If amplitude is given but flux is not, flux is
// derived from amplitude and sigma. If both are given, amplitude is ignored.
// The source table is not modified.
func GaussianPRFSourcesImage(shape Shape, sources *table.Table) (*mat.Dense, error) {
	prf := model.NewIntegratedGaussianPRF(1)

	if sources.Has("amplitude") && !sources.Has("flux") {
		sigma := columnOrDefault(sources, "sigma", prf.Defaults()["sigma"])
		amp := sources.Column("amplitude")
		flux := make([]float64, len(amp))
		for i, a := range amp {
			flux[i] = model.GaussianFlux(a, sigma[i], sigma[i])
		}
		sources = sources.Copy()
		if err := sources.AddColumn("flux", flux); err != nil {
			return nil, err
		}
	}

	return ModelSourcesImage(shape, prf, sources, 1)
}

// Returns the named column, or a column filled with the default value
func columnOrDefault(sources *table.Table, name string, def float64) []float64 {
	if col := sources.Column(name); col != nil {
		return col
	}
	col := make([]float64, sources.Len())
	for i := range col {
		col[i] = def
	}
	return col
}
