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
	"math"

	"github.com/astrogo/fitsio"
)

// Parameters shared by the example coordinate systems
const (
	RefLon     = 197.8925     // longitude of the reference point, in degrees
	RefLat     = -1.36555556  // latitude of the reference point, in degrees
	Rotation   = math.Pi / 3  // rotation of the pixel grid, in radians
	PixelScale = 0.1 / 3600.0 // 0.1 arcsec/pixel in deg/pixel
	LonPole    = 180.0        // native longitude of the celestial pole
)

// A celestial world coordinate system with a linear pixel transformation and
// gnomonic (TAN) projection, as described by FITS header keywords.
type WCS struct {
	NAxis   [2]int        // pixel shape (x, y)
	CRPix   [2]float64    // reference pixel (x, y), 1-indexed
	CRVal   [2]float64    // world coordinates of the reference pixel, in degrees
	CD      [2][2]float64 // linear transformation matrix, in degrees per pixel
	CType   [2]string
	CUnit   [2]string
	RADesys string // reference system for equatorial coordinates, empty otherwise
	LonPole float64

	cdInv [2][2]float64
}

// Returns the rotation and scale matrix of the example coordinate systems
func exampleCD() [2][2]float64 {
	sin, cos := math.Sincos(Rotation)
	return [2][2]float64{
		{-PixelScale * cos, PixelScale * sin},
		{PixelScale * sin, PixelScale * cos},
	}
}

// Create a simple celestial WCS for an image of the given shape, in either the ICRS
// or the galactic coordinate frame. The reference pixel is the center of the image.
func MakeWCS(ny, nx int, galactic bool) (*WCS, error) {
	if ny < 1 || nx < 1 {
		return nil, fmt.Errorf("invalid image shape %dx%d", ny, nx)
	}
	w := &WCS{
		NAxis:   [2]int{nx, ny},
		CRPix:   [2]float64{float64(nx) / 2, float64(ny) / 2},
		CRVal:   [2]float64{RefLon, RefLat},
		CD:      exampleCD(),
		CUnit:   [2]string{"deg", "deg"},
		LonPole: LonPole,
	}
	if galactic {
		w.CType = [2]string{"GLON-TAN", "GLAT-TAN"}
	} else {
		w.RADesys = "ICRS"
		w.CType = [2]string{"RA---TAN", "DEC--TAN"}
	}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WCS) init() (err error) {
	w.cdInv, err = invert2x2(w.CD)
	if err != nil {
		return fmt.Errorf("singular CD matrix: %s", err.Error())
	}
	return nil
}

// Tells whether the coordinates are galactic rather than equatorial
func (w *WCS) Galactic() bool { return w.CType[0] == "GLON-TAN" }

// Converts 0-indexed pixel coordinates to world coordinates in degrees
func (w *WCS) PixelToWorld(x, y float64) (lon, lat float64) {
	u, v := x+1-w.CRPix[0], y+1-w.CRPix[1]
	ix, iy := apply2x2(w.CD, u, v)
	phi, theta := tanPix2Sky(ix, iy)
	return native2Celestial(phi, theta, w.CRVal[0], w.CRVal[1], w.LonPole)
}

// Converts world coordinates in degrees to 0-indexed pixel coordinates
func (w *WCS) WorldToPixel(lon, lat float64) (x, y float64, err error) {
	phi, theta := celestial2Native(lon, lat, w.CRVal[0], w.CRVal[1], w.LonPole)
	ix, iy, err := tanSky2Pix(phi, theta)
	if err != nil {
		return 0, 0, err
	}
	u, v := apply2x2(w.cdInv, ix, iy)
	return u - 1 + w.CRPix[0], v - 1 + w.CRPix[1], nil
}

// Returns the FITS header cards describing this coordinate system
func (w *WCS) Cards() []fitsio.Card {
	cards := []fitsio.Card{
		{Name: "WCSAXES", Value: 2, Comment: "Number of coordinate axes"},
		{Name: "CRPIX1", Value: w.CRPix[0], Comment: "Pixel coordinate of reference point"},
		{Name: "CRPIX2", Value: w.CRPix[1], Comment: "Pixel coordinate of reference point"},
		{Name: "CD1_1", Value: w.CD[0][0], Comment: "Coordinate transformation matrix element"},
		{Name: "CD1_2", Value: w.CD[0][1], Comment: "Coordinate transformation matrix element"},
		{Name: "CD2_1", Value: w.CD[1][0], Comment: "Coordinate transformation matrix element"},
		{Name: "CD2_2", Value: w.CD[1][1], Comment: "Coordinate transformation matrix element"},
		{Name: "CUNIT1", Value: w.CUnit[0], Comment: "Units of coordinate increment and value"},
		{Name: "CUNIT2", Value: w.CUnit[1], Comment: "Units of coordinate increment and value"},
		{Name: "CTYPE1", Value: w.CType[0], Comment: "Coordinate type code"},
		{Name: "CTYPE2", Value: w.CType[1], Comment: "Coordinate type code"},
		{Name: "CRVAL1", Value: w.CRVal[0], Comment: "[deg] Coordinate value at reference point"},
		{Name: "CRVAL2", Value: w.CRVal[1], Comment: "[deg] Coordinate value at reference point"},
		{Name: "LONPOLE", Value: w.LonPole, Comment: "[deg] Native longitude of celestial pole"},
	}
	if w.RADesys != "" {
		cards = append(cards, fitsio.Card{Name: "RADESYS", Value: w.RADesys, Comment: "Equatorial coordinate system"})
	}
	return cards
}

// Reads a coordinate system from FITS header cards, as written by Cards()
func FromHeader(h *fitsio.Header) (*WCS, error) {
	w := &WCS{LonPole: LonPole}
	floats := []struct {
		key string
		dst *float64
	}{
		{"CRPIX1", &w.CRPix[0]}, {"CRPIX2", &w.CRPix[1]},
		{"CRVAL1", &w.CRVal[0]}, {"CRVAL2", &w.CRVal[1]},
		{"CD1_1", &w.CD[0][0]}, {"CD1_2", &w.CD[0][1]},
		{"CD2_1", &w.CD[1][0]}, {"CD2_2", &w.CD[1][1]},
	}
	for _, f := range floats {
		card := h.Get(f.key)
		if card == nil {
			return nil, fmt.Errorf("FITS header does not contain key %s", f.key)
		}
		v, ok := toFloat64(card.Value)
		if !ok {
			return nil, fmt.Errorf("FITS header key %s has non-numeric value %v", f.key, card.Value)
		}
		*f.dst = v
	}
	if card := h.Get("LONPOLE"); card != nil {
		if v, ok := toFloat64(card.Value); ok {
			w.LonPole = v
		}
	}
	for i := 0; i < 2; i++ {
		card := h.Get(fmt.Sprintf("CTYPE%d", i+1))
		if card == nil {
			return nil, fmt.Errorf("FITS header does not contain key CTYPE%d", i+1)
		}
		s, _ := card.Value.(string)
		if len(s) < 8 || s[4:] != "-TAN" {
			return nil, fmt.Errorf("unsupported projection '%s'", s)
		}
		w.CType[i] = s
		w.CUnit[i] = "deg"
	}
	if card := h.Get("RADESYS"); card != nil {
		w.RADesys, _ = card.Value.(string)
	}
	axes := h.Axes()
	if len(axes) == 2 {
		w.NAxis = [2]int{axes[0], axes[1]}
	}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	}
	return 0, false
}
