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

package fits

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// A color ramp for false-color previews. Intermediate values are blended in HCL space
type Ramp struct {
	Low, High colorful.Color
}

// Parses a ramp from two hex colors like "#000020" and "#ffe080"
func ParseRamp(low, high string) (*Ramp, error) {
	l, err := colorful.Hex(low)
	if err != nil {
		return nil, fmt.Errorf("invalid ramp color '%s': %s", low, err.Error())
	}
	h, err := colorful.Hex(high)
	if err != nil {
		return nil, fmt.Errorf("invalid ramp color '%s': %s", high, err.Error())
	}
	return &Ramp{Low: l, High: h}, nil
}

// Returns the ramp color for a value in [0,1]
func (r *Ramp) At(t float64) color.RGBA {
	c := r.Low.BlendHcl(r.High, t).Clamped()
	cr, cg, cb := c.RGB255()
	return color.RGBA{cr, cg, cb, 255}
}

// Write a grayscale image to JPG, using the given min, max and gamma.
func WriteMonoJPGToFile(fileName string, m *mat.Dense, min, max, gamma float64, quality int, ramp *Ramp) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := WriteMonoJPG(writer, m, min, max, gamma, quality, ramp); err != nil {
		return err
	}
	return writer.Flush()
}

// Write a grayscale image to JPG, using the given min, max and gamma.
// If ramp is not nil, values are mapped onto its colors instead of gray levels.
func WriteMonoJPG(writer io.Writer, m *mat.Dense, min, max, gamma float64, quality int, ramp *Ramp) error {
	height, width := m.Dims()
	rect := image.Rectangle{image.Point{0, 0}, image.Point{width, height}}
	if ramp == nil {
		img := image.NewGray(rect)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				gray := normalize(m.At(y, x), min, max, gamma)
				img.SetGray(x, y, color.Gray{uint8(gray * 255)})
			}
		}
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	}

	img := image.NewRGBA(rect)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, ramp.At(normalize(m.At(y, x), min, max, gamma)))
		}
	}
	return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
}
