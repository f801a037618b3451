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
	"math"

	"github.com/mlnoga/starfield/internal/table"
	"gonum.org/v1/gonum/mat"
)

// Seed for all random draws of the example images
const ExampleSeed = 12345

// Constant background level of the example images
const ExampleBackground = 5.0

// Make an example 100x200 image containing four 2D Gaussians plus a constant background of 5.
// With noise, gaussian noise with mean 0 and standard deviation 5 is added.
func FourGaussiansImage(noise bool) (*mat.Dense, error) {
	sources := table.New()
	sources.AddColumn("amplitude", []float64{50, 70, 150, 210})
	sources.AddColumn("x_mean", []float64{160, 25, 150, 90})
	sources.AddColumn("y_mean", []float64{70, 40, 25, 60})
	sources.AddColumn("x_stddev", []float64{15.2, 5.1, 3.0, 8.1})
	sources.AddColumn("y_stddev", []float64{2.6, 2.5, 3.0, 4.7})
	sources.AddColumn("theta", degreesToRadians(145, 20, 0, 60))

	return exampleImage(Shape{NY: 100, NX: 200}, sources, noise, 5)
}

// Make an example 300x500 image containing 100 2D Gaussians plus a constant background of 5.
// Source parameters are drawn from a fixed seed, so the image is deterministic.
// With noise, gaussian noise with mean 0 and standard deviation 2 is added.
func HundredGaussiansImage(noise bool) (*mat.Dense, error) {
	sources, err := RandomModelsTable(100, []ParamRange{
		{"flux", 500, 1000},
		{"x_mean", 0, 500},
		{"y_mean", 0, 300},
		{"x_stddev", 1, 5},
		{"y_stddev", 1, 5},
		{"theta", 0, 2 * math.Pi},
	}, ExampleSeed)
	if err != nil {
		return nil, err
	}
	return exampleImage(Shape{NY: 300, NX: 500}, sources, noise, 2)
}

func exampleImage(shape Shape, sources *table.Table, noise bool, noiseStddev float64) (*mat.Dense, error) {
	image, err := GaussianSourcesImage(shape, sources, 1)
	if err != nil {
		return nil, err
	}
	AddConstant(image, ExampleBackground)

	if noise {
		n, err := NoiseImage(shape, NoiseGaussian, 0, noiseStddev, ExampleSeed)
		if err != nil {
			return nil, err
		}
		image.Add(image, n)
	}
	return image, nil
}

func degreesToRadians(degs ...float64) []float64 {
	res := make([]float64, len(degs))
	for i, d := range degs {
		res[i] = d * math.Pi / 180
	}
	return res
}
