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
	"github.com/valyala/fastrand"
)

// Number of candidate positions generated per requested position when
// a minimum separation is enforced
const candidatesPerPosition = 10

// Largest number of positions RandomXYCoords generates
const MaxPositions = 1 << 20

// Returns a fastrand generator deterministically seeded from the given seed.
// fastrand reseeds itself from entropy on a zero state, so zero is avoided.
func NewRNG(seed int64) *fastrand.RNG {
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	s := uint32(z) ^ uint32(z>>32)
	if s == 0 {
		s = 0x6d2b79f5
	}
	rng := &fastrand.RNG{}
	rng.Seed(s)
	return rng
}

// Returns a uniformly distributed value in [lo, hi)
func Uniform(rng *fastrand.RNG, lo, hi float64) float64 {
	return lo + (hi-lo)*float64(rng.Uint32())/(1<<32)
}

// Generates up to n random positions uniformly distributed within the given x and y ranges,
// with a pairwise distance of at least minSeparation. Candidates are drawn in excess and
// thinned out greedily, so fewer than n positions are returned if the constraint cannot be met.
// The result is deterministic for a given seed. Requests above MaxPositions are limited to MaxPositions.
func RandomXYCoords(n int, xRange, yRange [2]float64, minSeparation float64, seed int64) []Point2D {
	if n <= 0 {
		return nil
	}
	if n > MaxPositions {
		n = MaxPositions
	}
	rng := NewRNG(seed)

	if minSeparation <= 0 {
		return randomPoints(rng, n, xRange, yRange)
	}

	candidates := randomPoints(rng, n*candidatesPerPosition, xRange, yRange)
	kdt := KDTree2(append([]Point2D(nil), candidates...))
	kdt.Make()

	removed := make([]bool, len(candidates))
	res := make([]Point2D, 0, n)
	for i, c := range candidates {
		if removed[i] {
			continue
		}
		c.Index = len(res)
		res = append(res, c)
		if len(res) == n {
			break
		}
		kdt.WithinRadius(c, minSeparation, func(q Point2D) {
			if q.Index > i {
				removed[q.Index] = true
			}
		})
	}
	return res
}

func randomPoints(rng *fastrand.RNG, n int, xRange, yRange [2]float64) []Point2D {
	points := make([]Point2D, n)
	for i := range points {
		points[i] = Point2D{
			X:     Uniform(rng, xRange[0], xRange[1]),
			Y:     Uniform(rng, yRange[0], yRange[1]),
			Index: i,
		}
	}
	return points
}
