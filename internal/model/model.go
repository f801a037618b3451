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
	"sort"
	"strings"
)

// Named parameter values for a model. A partial set is completed from
// the model defaults with Resolve before evaluation.
type Params map[string]float64

// Clone returns a copy of the parameter set
func (p Params) Clone() Params {
	res := make(Params, len(p))
	for k, v := range p {
		res[k] = v
	}
	return res
}

// String prints the parameters in sorted key order, for log output
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := strings.Builder{}
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%g", k, p[k])
	}
	return b.String()
}

// A parametric 2D model. Evaluation is a pure function of the pixel
// coordinates and a complete parameter set, so a model value can be shared
// freely between calls.
type Model interface {
	Name() string
	ParamNames() []string
	Defaults() Params
	Eval(x, y float64, p Params) float64
}

// A model with finite support around its center
type Bounded interface {
	Model
	BoundingBox(p Params) BBox
}

// A model backed by a sampled image, possibly oversampled w.r.t. the detector grid
type Gridded interface {
	Model
	DataShape() (ny, nx int)
	Oversampling() (oy, ox int)
}

// An axis-aligned bounding box in pixel coordinates. Bounds are inclusive
type BBox struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Shape returns the integral (ny, nx) size of the box, rounding the
// bounds outwards to the pixel grid.
func (b BBox) Shape() (ny, nx int) {
	ixmin := math.Floor(b.XMin + 0.5)
	ixmax := math.Ceil(b.XMax + 0.5)
	iymin := math.Floor(b.YMin + 0.5)
	iymax := math.Ceil(b.YMax + 0.5)
	return int(iymax - iymin), int(ixmax - ixmin)
}

// Resolve completes the given partial parameter set with the model
// defaults. Names the model does not know are dropped.
func Resolve(m Model, p Params) Params {
	res := m.Defaults()
	for _, name := range m.ParamNames() {
		if v, ok := p[name]; ok {
			res[name] = v
		}
	}
	return res
}

// HasParam tells whether the model has a parameter of the given name
func HasParam(m Model, name string) bool {
	for _, n := range m.ParamNames() {
		if n == name {
			return true
		}
	}
	return false
}
