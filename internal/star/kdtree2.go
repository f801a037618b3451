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

package star

import (
	"sort"
)

// A kd-Tree with k=2 dimensions.
// Inspired by https://en.wikipedia.org/wiki/K-d_tree
type KDTree2 []Point2D

// Builds a pointerless k-dimensional tree with k=2 from the points by resorting the array.
// Function for even depths which pivots on the X dimension.
func (points KDTree2) Make() {
	sort.Slice(points, func(i, j int) bool {
		return points[i].X < points[j].X
	})

	l := len(points)
	if l > 1 { // descend left
		points[:l/2].makeY()
		if l > 2 { // descend right
			points[l/2+1:].makeY()
		}
	}
}

// Builds a pointerless k-dimensional tree with k=2 from the points by resorting the array.
// Helper function for odd depths which pivots on the Y dimension.
func (points KDTree2) makeY() {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Y < points[j].Y
	})

	l := len(points)
	if l > 1 { // descend left
		points[:l/2].Make()
		if l > 2 { // descend right
			points[l/2+1:].Make()
		}
	}
}

// Calls visit for every point strictly closer than radius to p. The points must
// have been previously transformed to a k-dimensional tree using Make()
func (kdt KDTree2) WithinRadius(p Point2D, radius float64, visit func(q Point2D)) {
	kdt.withinRadius(p, radius*radius, radius, true, visit)
}

func (kdt KDTree2) withinRadius(p Point2D, rsq, r float64, onX bool, visit func(q Point2D)) {
	l := len(kdt)
	if l == 0 {
		return
	}
	midpoint := kdt[l/2]
	if Dist2DSquared(p, midpoint) < rsq {
		visit(midpoint)
	}

	distToPlane := p.Y - midpoint.Y
	if onX {
		distToPlane = p.X - midpoint.X
	}
	if distToPlane-r <= 0 && l > 1 { // descend left
		kdt[:l/2].withinRadius(p, rsq, r, !onX, visit)
	}
	if distToPlane+r >= 0 && l > 2 { // descend right
		kdt[l/2+1:].withinRadius(p, rsq, r, !onX, visit)
	}
}
