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
	"math"
)

// Exponent of Moffat PSFs created by NewPSF
const MoffatAlpha = 2.5

// Largest number of samples in the image of a PSF created by NewPSF
const MaxPSFSamples = 4096 * 4096

// PSF kinds supported by NewPSF
var PSFKinds = []string{"prf", "gaussian", "moffat"}

// Creates a PSF model with parameters flux, x_0 and y_0, given its kind and
// width parameter. Kind "prf" is an integrated Gaussian, "gaussian" and "moffat"
// are sampled into an image PSF with the given oversampling.
func NewPSF(kind string, sigma float64, oversampling int) (Model, error) {
	if !(sigma > 0) {
		return nil, fmt.Errorf("invalid PSF width %g", sigma)
	}
	if oversampling < 1 {
		return nil, fmt.Errorf("invalid oversampling factor %d", oversampling)
	}
	sizeF := math.Ceil(2 * GaussianBoxFactor * sigma)
	if kind != "prf" && math.Pow((sizeF+1)*float64(oversampling), 2) > MaxPSFSamples {
		return nil, fmt.Errorf("PSF of width %g with oversampling %d exceeds %d samples", sigma, oversampling, MaxPSFSamples)
	}
	size := int(sizeF) | 1
	switch kind {
	case "prf":
		return NewIntegratedGaussianPRF(sigma), nil
	case "gaussian":
		return SampleImagePSF(NewGaussian2D(sigma, sigma), nil, size, size, oversampling)
	case "moffat":
		return SampleImagePSF(NewMoffat2D(), Params{"gamma": sigma, "alpha": MoffatAlpha}, size, size, oversampling)
	}
	return nil, fmt.Errorf("unknown PSF kind '%s', want one of %v", kind, PSFKinds)
}
