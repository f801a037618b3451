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
	"errors"
	"math"
)

// Error returned when a small array placed at a position does not overlap the large array
var ErrNoOverlap = errors.New("arrays do not overlap")

// A rectangular region of a 2D array, as half-open index ranges
type Slice2D struct {
	YMin, YMax int
	XMin, XMax int
}

// Shape of the region
func (s Slice2D) Shape() Shape { return Shape{NY: s.YMax - s.YMin, NX: s.XMax - s.XMin} }

// OverlapSlices calculates the overlap of a small array centered at position (y, x)
// with a large array, trimming the small array at the large array's edges. It returns the
// region in the large array and the corresponding region in the small array.
func OverlapSlices(large, small Shape, y, x float64) (largeSl, smallSl Slice2D, err error) {
	yMin, yMax := edges(y, small.NY)
	xMin, xMax := edges(x, small.NX)
	if yMax <= 0 || xMax <= 0 || yMin >= large.NY || xMin >= large.NX {
		return largeSl, smallSl, ErrNoOverlap
	}

	largeSl = Slice2D{
		YMin: maxInt(0, yMin), YMax: minInt(large.NY, yMax),
		XMin: maxInt(0, xMin), XMax: minInt(large.NX, xMax),
	}
	smallSl = Slice2D{
		YMin: largeSl.YMin - yMin, YMax: largeSl.YMax - yMin,
		XMin: largeSl.XMin - xMin, XMax: largeSl.XMax - xMin,
	}
	return largeSl, smallSl, nil
}

// Index range of an array of given size centered at pos, rounded to the nearest pixel
func edges(pos float64, size int) (lo, hi int) {
	half := float64(size) / 2
	return int(math.Ceil(pos - half)), int(math.Ceil(pos + half))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
