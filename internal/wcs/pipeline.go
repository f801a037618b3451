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

package wcs

import (
	"fmt"
	"strings"
)

// A step of a coordinate transformation pipeline, mapping two input
// coordinates to two output coordinates and back
type Transform interface {
	Name() string
	Forward(a, b float64) (float64, float64, error)
	Inverse(a, b float64) (float64, float64, error)
}

// Adds a constant offset to both axes
type Shift2D struct {
	DX, DY float64
}

func (s Shift2D) Name() string { return "shift" }

func (s Shift2D) Forward(x, y float64) (float64, float64, error) {
	return x + s.DX, y + s.DY, nil
}

func (s Shift2D) Inverse(x, y float64) (float64, float64, error) {
	return x - s.DX, y - s.DY, nil
}

// Applies a 2x2 linear transformation matrix
type Affine2D struct {
	M   [2][2]float64
	inv [2][2]float64
}

// Creates an affine transformation, failing if the matrix is singular
func NewAffine2D(m [2][2]float64) (*Affine2D, error) {
	inv, err := invert2x2(m)
	if err != nil {
		return nil, fmt.Errorf("singular matrix: %s", err.Error())
	}
	return &Affine2D{M: m, inv: inv}, nil
}

func (a *Affine2D) Name() string { return "affine" }

func (a *Affine2D) Forward(x, y float64) (float64, float64, error) {
	u, v := apply2x2(a.M, x, y)
	return u, v, nil
}

func (a *Affine2D) Inverse(x, y float64) (float64, float64, error) {
	u, v := apply2x2(a.inv, x, y)
	return u, v, nil
}

// Gnomonic projection from the tangent plane to native spherical coordinates
type Pix2SkyTAN struct{}

func (Pix2SkyTAN) Name() string { return "tan" }

func (Pix2SkyTAN) Forward(x, y float64) (float64, float64, error) {
	phi, theta := tanPix2Sky(x, y)
	return phi, theta, nil
}

func (Pix2SkyTAN) Inverse(phi, theta float64) (float64, float64, error) {
	return tanSky2Pix(phi, theta)
}

// Rotates native spherical coordinates to celestial coordinates
type RotateNative2Celestial struct {
	Lon, Lat, LonPole float64
}

func (r RotateNative2Celestial) Name() string { return "rotation" }

func (r RotateNative2Celestial) Forward(phi, theta float64) (float64, float64, error) {
	lon, lat := native2Celestial(phi, theta, r.Lon, r.Lat, r.LonPole)
	return lon, lat, nil
}

func (r RotateNative2Celestial) Inverse(lon, lat float64) (float64, float64, error) {
	phi, theta := celestial2Native(lon, lat, r.Lon, r.Lat, r.LonPole)
	return phi, theta, nil
}

// A named coordinate frame
type Frame struct {
	Name string
	Axes [2]string
	Unit [2]string
}

// A chain of transforms from a detector frame to a world frame
type Pipeline struct {
	Input  Frame
	Output Frame
	Steps  []Transform
}

// Evaluates the pipeline from 0-indexed pixel coordinates to world coordinates
func (p *Pipeline) Forward(x, y float64) (lon, lat float64, err error) {
	a, b := x, y
	for _, s := range p.Steps {
		if a, b, err = s.Forward(a, b); err != nil {
			return 0, 0, fmt.Errorf("%s: %s", s.Name(), err.Error())
		}
	}
	return a, b, nil
}

// Evaluates the pipeline from world coordinates back to 0-indexed pixel coordinates
func (p *Pipeline) Inverse(lon, lat float64) (x, y float64, err error) {
	a, b := lon, lat
	for i := len(p.Steps) - 1; i >= 0; i-- {
		s := p.Steps[i]
		if a, b, err = s.Inverse(a, b); err != nil {
			return 0, 0, fmt.Errorf("%s: %s", s.Name(), err.Error())
		}
	}
	return a, b, nil
}

// Lists the frames and the transform chain between them
func (p *Pipeline) String() string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name()
	}
	b := strings.Builder{}
	fmt.Fprintf(&b, "%9s %-22s\n", "From", "Transform")
	fmt.Fprintf(&b, "%9s %-22s\n", strings.Repeat("-", 9), strings.Repeat("-", 22))
	fmt.Fprintf(&b, "%9s %s\n", p.Input.Name, strings.Join(names, " | "))
	fmt.Fprintf(&b, "%9s %s\n", p.Output.Name, "None")
	return b.String()
}

// Create the transformation pipeline equivalent to MakeWCS(ny, nx, galactic)
func MakePipeline(ny, nx int, galactic bool) (*Pipeline, error) {
	if ny < 1 || nx < 1 {
		return nil, fmt.Errorf("invalid image shape %dx%d", ny, nx)
	}
	affine, err := NewAffine2D(exampleCD())
	if err != nil {
		return nil, err
	}
	out := Frame{Name: "icrs", Axes: [2]string{"ra", "dec"}, Unit: [2]string{"deg", "deg"}}
	if galactic {
		out = Frame{Name: "galactic", Axes: [2]string{"l", "b"}, Unit: [2]string{"deg", "deg"}}
	}
	return &Pipeline{
		Input:  Frame{Name: "detector", Axes: [2]string{"x", "y"}, Unit: [2]string{"pix", "pix"}},
		Output: out,
		Steps: []Transform{
			// 0-indexed pixels relative to the reference pixel nx/2, ny/2 (1-indexed)
			Shift2D{DX: 1 - float64(nx)/2, DY: 1 - float64(ny)/2},
			affine,
			Pix2SkyTAN{},
			RotateNative2Celestial{Lon: RefLon, Lat: RefLat, LonPole: LonPole},
		},
	}, nil
}
