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
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// Write a grayscale image to 16-bit TIFF, using the given min, max and gamma.
func WriteMonoTIFF16ToFile(fileName string, m *mat.Dense, min, max, gamma float64) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := WriteMonoTIFF16(writer, m, min, max, gamma); err != nil {
		return err
	}
	return writer.Flush()
}

// Write a grayscale image to 16-bit TIFF, using the given min, max and gamma.
// Rows of the matrix are written top to bottom.
func WriteMonoTIFF16(writer io.Writer, m *mat.Dense, min, max, gamma float64) error {
	height, width := m.Dims()
	img := image.NewGray16(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := normalize(m.At(y, x), min, max, gamma)
			img.SetGray16(x, y, color.Gray16{uint16(gray * 65535)})
		}
	}
	return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Maps a value into [0,1] using the given min, max and gamma
func normalize(v, min, max, gamma float64) float64 {
	scale := 1.0
	if max > min {
		scale = 1 / (max - min)
	}
	v = (v - min) * scale
	// replace NaNs with zeros for export, else the encoders break
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	if gamma > 0 && gamma != 1 {
		v = math.Pow(v, 1/gamma)
	}
	return v
}
