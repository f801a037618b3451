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
	"io"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mlnoga/starfield/internal/model"
	"github.com/mlnoga/starfield/internal/star"
	"github.com/mlnoga/starfield/internal/table"
)

// Generates up to n positions within the given ranges with the given minimum pairwise separation.
// Must be deterministic for a given seed.
type CoordGenerator func(n int, xRange, yRange [2]float64, minSeparation float64, seed int64) []star.Point2D

// Options for PSF test data generation
type PSFDataOptions struct {
	FluxRange     [2]float64     `json:"fluxRange"`     // lower and upper bound of the source fluxes
	MinSeparation float64        `json:"minSeparation"` // minimum distance between source centers
	Seed          int64          `json:"seed"`          // seed for positions and fluxes
	BorderSize    *Shape         `json:"borderSize"`    // border free of source centers. Nil for half the PSF shape
	Progress      bool           `json:"progress"`      // report progress to the log writer
	Coords        CoordGenerator `json:"-"`             // position generator. Nil for star.RandomXYCoords
}

func DefaultPSFDataOptions() PSFDataOptions {
	return PSFDataOptions{
		FluxRange:     [2]float64{100, 1000},
		MinSeparation: 1,
		Seed:          0,
	}
}

// Parameters a PSF model must have for test data generation
var psfParams = []string{"x_0", "y_0", "flux"}

// Make an example image containing PSF model images at random positions with random fluxes.
// The PSF is evaluated only within psfShape around each source center, trimmed at the image edges.
// If the minimum separation is too large, fewer than nSources sources are generated.
// Returns the image and a table with the x, y and flux of each generated source.
func PSFTestData(shape Shape, psf model.Model, psfShape Shape, nSources int, opts PSFDataOptions, logWriter io.Writer) (*mat.Dense, *table.Table, error) {
	if logWriter == nil {
		logWriter = io.Discard
	}
	if err := shape.Validate(); err != nil {
		return nil, nil, err
	}
	if err := psfShape.Validate(); err != nil {
		return nil, nil, fmt.Errorf("psf: %s", err.Error())
	}
	for _, name := range psfParams {
		if !model.HasParam(psf, name) {
			return nil, nil, fmt.Errorf("PSF model %s lacks parameter %s", psf.Name(), name)
		}
	}
	if nSources > star.MaxPositions {
		return nil, nil, fmt.Errorf("%d sources exceed the maximum of %d", nSources, star.MaxPositions)
	}
	if opts.FluxRange[0] > opts.FluxRange[1] {
		return nil, nil, fmt.Errorf("invalid flux range [%g, %g]", opts.FluxRange[0], opts.FluxRange[1])
	}

	psfShape = definePSFShape(psf, psfShape, logWriter)

	border := Shape{NY: (psfShape.NY - 1) / 2, NX: (psfShape.NX - 1) / 2}
	if opts.BorderSize != nil {
		border = *opts.BorderSize
	}
	if border.NY < 0 || border.NX < 0 {
		return nil, nil, fmt.Errorf("invalid border size %v", border)
	}
	xRange := [2]float64{float64(border.NX), float64(shape.NX - border.NX)}
	yRange := [2]float64{float64(border.NY), float64(shape.NY - border.NY)}
	if xRange[0] >= xRange[1] || yRange[0] >= yRange[1] {
		return nil, nil, fmt.Errorf("border %v leaves no room for sources in image %v", border, shape)
	}

	coords := opts.Coords
	if coords == nil {
		coords = star.RandomXYCoords
	}
	positions := coords(nSources, xRange, yRange, opts.MinSeparation, opts.Seed)
	xs, ys := make([]float64, len(positions)), make([]float64, len(positions))
	for i, pos := range positions {
		xs[i], ys[i] = pos.X, pos.Y
	}

	uni := distuv.Uniform{Min: opts.FluxRange[0], Max: opts.FluxRange[1], Src: rand.NewSource(uint64(opts.Seed))}
	flux := make([]float64, maxInt(nSources, 0))
	for i := range flux {
		flux[i] = uni.Rand()
	}

	// columns carry the model parameter names while rendering
	sources := table.New()
	if err := sources.AddColumn("x_0", xs); err != nil {
		return nil, nil, err
	}
	if err := sources.AddColumn("y_0", ys); err != nil {
		return nil, nil, err
	}
	sources.Truncate(len(flux))
	if err := sources.AddColumn("flux", flux[:sources.Len()]); err != nil {
		return nil, nil, err
	}

	data := mat.NewDense(shape.NY, shape.NX, nil)
	n := sources.Len()
	lastPerc := 0
	for i := 0; i < n; i++ {
		p := model.Params(sources.Row(i))
		largeSl, _, err := OverlapSlices(shape, psfShape, p["y_0"], p["x_0"])
		if err != nil {
			return nil, nil, fmt.Errorf("source %d at (%g, %g): %w", i, p["x_0"], p["y_0"], err)
		}
		region := data.Slice(largeSl.YMin, largeSl.YMax, largeSl.XMin, largeSl.XMax).(*mat.Dense)
		if err := model.AddTo(region, largeSl.XMin, largeSl.YMin, psf, p, 1); err != nil {
			return nil, nil, fmt.Errorf("source %d: %s", i, err.Error())
		}

		if opts.Progress {
			if perc := (i + 1) * 100 / n; perc/10 > lastPerc/10 {
				fmt.Fprintf(logWriter, "Adding sources: %d%% (%d/%d)\n", perc, i+1, n)
				lastPerc = perc
			}
		}
	}

	for _, c := range [][2]string{{"x_0", "x"}, {"y_0", "y"}} {
		if err := sources.RenameColumn(c[0], c[1]); err != nil {
			return nil, nil, err
		}
	}
	return data, sources, nil
}

// Limits the evaluation shape to the size of the PSF model, if known. For models backed by
// a sampled image this is the data shape divided by the oversampling, else the bounding box.
func definePSFShape(psf model.Model, psfShape Shape, logWriter io.Writer) Shape {
	var modelShape Shape
	var what string
	if g, ok := psf.(model.Gridded); ok {
		ny, nx := g.DataShape()
		oy, ox := g.Oversampling()
		modelShape, what = Shape{NY: ny / oy, NX: nx / ox}, "size of the evaluated PSF model (including oversampling)"
	} else if b, ok := psf.(model.Bounded); ok {
		ny, nx := b.BoundingBox(model.Resolve(psf, nil)).Shape()
		modelShape, what = Shape{NY: ny, NX: nx}, "bounding box size of the PSF model"
	} else {
		return psfShape
	}

	if psfShape.NY > modelShape.NY || psfShape.NX > modelShape.NX {
		shrunk := Shape{NY: minInt(psfShape.NY, modelShape.NY), NX: minInt(psfShape.NX, modelShape.NX)}
		fmt.Fprintf(logWriter, "Warning: the psf shape %v is larger than the %s, using %v\n", psfShape, what, shrunk)
		return shrunk
	}
	return psfShape
}
