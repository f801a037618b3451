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

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Number of histogram bins used to locate the background
const numBins = 256

// Basic image statistics
type Stats struct {
	Min      float64 // minimum pixel value
	Max      float64 // maximum pixel value
	Mean     float64 // mean pixel value
	StdDev   float64 // standard deviation of pixel values
	Location float64 // background level, from the histogram mode
	Scale    float64 // background spread, from the histogram fit
	Noise    float64 // estimated gaussian noise
}

// Calculates statistics for the given image
func NewStats(m *mat.Dense) (*Stats, error) {
	data := mat.DenseCopyOf(m).RawMatrix().Data
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	s := &Stats{
		Min:   floats.Min(data),
		Max:   floats.Max(data),
		Noise: EstimateNoise(m),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)

	if s.Max > s.Min {
		bins := make([]int, numBins)
		Histogram(data, s.Min, s.Max, bins)
		loc, scale, err := GetModeStdDevFromHistogram(bins, s.Min, s.Max)
		if err != nil || math.IsNaN(loc) || math.IsNaN(scale) {
			// fall back to the histogram peak
			loc, _ = GetPeak(bins, s.Min, s.Max)
			scale = s.StdDev
		}
		s.Location, s.Scale = loc, scale
	} else {
		s.Location = s.Min
	}
	return s, nil
}

// Pretty print statistics to string
func (s *Stats) String() string {
	return fmt.Sprintf("Min %.4g Max %.4g Mean %.4g StdDev %.4g Location %.4g Scale %.4g Noise %.4g",
		s.Min, s.Max, s.Mean, s.StdDev, s.Location, s.Scale, s.Noise)
}
