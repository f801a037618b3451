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
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mlnoga/starfield/internal/table"
)

// Statistical distribution of a noise image
type NoiseDistribution int

const (
	NoiseGaussian NoiseDistribution = iota
	NoisePoisson
)

func (d NoiseDistribution) String() string {
	switch d {
	case NoiseGaussian:
		return "gaussian"
	case NoisePoisson:
		return "poisson"
	}
	return fmt.Sprintf("NoiseDistribution(%d)", int(d))
}

// Parses a noise distribution name, case insensitive
func ParseNoiseDistribution(s string) (NoiseDistribution, error) {
	switch strings.ToLower(s) {
	case "gaussian", "normal":
		return NoiseGaussian, nil
	case "poisson":
		return NoisePoisson, nil
	}
	return 0, fmt.Errorf("unknown noise distribution '%s'", s)
}

// Make an image of random noise from the given distribution. Gaussian noise has the
// given mean and standard deviation, Poisson noise the given mean. Deterministic for a given seed.
func NoiseImage(shape Shape, dist NoiseDistribution, mean, stddev float64, seed uint64) (*mat.Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	src := rand.NewSource(seed)

	var sample func() float64
	switch dist {
	case NoiseGaussian:
		if stddev < 0 {
			return nil, fmt.Errorf("invalid standard deviation %g for gaussian noise", stddev)
		}
		sample = distuv.Normal{Mu: mean, Sigma: stddev, Src: src}.Rand
	case NoisePoisson:
		if mean < 0 {
			return nil, fmt.Errorf("invalid mean %g for poisson noise", mean)
		}
		sample = distuv.Poisson{Lambda: mean, Src: src}.Rand
	default:
		return nil, fmt.Errorf("unknown noise distribution %v", dist)
	}

	data := make([]float64, shape.NY*shape.NX)
	for i := range data {
		data[i] = sample()
	}
	return mat.NewDense(shape.NY, shape.NX, data), nil
}

// Range of a model parameter for random source generation
type ParamRange struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Make a table of n sources with parameters drawn uniformly from the given ranges.
// Columns are generated in the given order, so the table is deterministic for a given seed.
// Columns which do not match model parameters, such as flux, are ignored during rendering.
func RandomModelsTable(n int, ranges []ParamRange, seed uint64) (*table.Table, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid number of sources %d", n)
	}
	uni := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}
	sources := table.New()
	for _, r := range ranges {
		if r.Min > r.Max {
			return nil, fmt.Errorf("invalid range [%g, %g] for %s", r.Min, r.Max, r.Name)
		}
		col := make([]float64, n)
		for i := range col {
			col[i] = r.Min + (r.Max-r.Min)*uni.Rand()
		}
		if err := sources.AddColumn(r.Name, col); err != nil {
			return nil, err
		}
	}
	return sources, nil
}
