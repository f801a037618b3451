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
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const rad2deg = 180 / math.Pi
const deg2rad = math.Pi / 180

// Gnomonic projection from intermediate world coordinates (x, y) in degrees
// to native spherical coordinates (phi, theta) in degrees
func tanPix2Sky(x, y float64) (phi, theta float64) {
	phi = math.Atan2(x, -y) * rad2deg
	theta = math.Atan2(rad2deg, math.Hypot(x, y)) * rad2deg
	return phi, theta
}

// Inverse gnomonic projection. Undefined for points at or beyond 90 degrees from the tangent point
func tanSky2Pix(phi, theta float64) (x, y float64, err error) {
	if theta <= 0 {
		return 0, 0, errors.New("point not on the projected hemisphere")
	}
	sinTheta, cosTheta := math.Sincos(theta * deg2rad)
	r := rad2deg * cosTheta / sinTheta
	sinPhi, cosPhi := math.Sincos(phi * deg2rad)
	return r * sinPhi, -r * cosPhi, nil
}

// Rotates native spherical coordinates into celestial coordinates, given the celestial
// coordinates of the native pole (lon, lat) and the native longitude of the celestial pole.
// All angles in degrees. Longitudes are returned in [0, 360)
func native2Celestial(phi, theta, lon, lat, lonPole float64) (alpha, delta float64) {
	sinTheta, cosTheta := math.Sincos(theta * deg2rad)
	sinLat, cosLat := math.Sincos(lat * deg2rad)
	sinDPhi, cosDPhi := math.Sincos((phi - lonPole) * deg2rad)

	x := -cosTheta * sinDPhi
	y := sinTheta*cosLat - cosTheta*sinLat*cosDPhi
	z := sinTheta*sinLat + cosTheta*cosLat*cosDPhi
	alpha = lon + math.Atan2(x, y)*rad2deg
	// atan2 stays accurate near the poles of the rotation, where asin(z) does not
	delta = math.Atan2(z, math.Hypot(x, y)) * rad2deg
	return normalizeLon(alpha), delta
}

// Inverse of native2Celestial
func celestial2Native(alpha, delta, lon, lat, lonPole float64) (phi, theta float64) {
	sinDelta, cosDelta := math.Sincos(delta * deg2rad)
	sinLat, cosLat := math.Sincos(lat * deg2rad)
	sinDAlpha, cosDAlpha := math.Sincos((alpha - lon) * deg2rad)

	x := -cosDelta * sinDAlpha
	y := sinDelta*cosLat - cosDelta*sinLat*cosDAlpha
	z := sinDelta*sinLat + cosDelta*cosLat*cosDAlpha
	phi = lonPole + math.Atan2(x, y)*rad2deg
	theta = math.Atan2(z, math.Hypot(x, y)) * rad2deg
	return phi, theta
}

func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// Inverts a 2x2 matrix
func invert2x2(m [2][2]float64) ([2][2]float64, error) {
	a := mat.NewDense(2, 2, []float64{m[0][0], m[0][1], m[1][0], m[1][1]})
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return [2][2]float64{}, err
	}
	return [2][2]float64{
		{inv.At(0, 0), inv.At(0, 1)},
		{inv.At(1, 0), inv.At(1, 1)},
	}, nil
}

func apply2x2(m [2][2]float64, x, y float64) (float64, float64) {
	return m[0][0]*x + m[0][1]*y, m[1][0]*x + m[1][1]*y
}
