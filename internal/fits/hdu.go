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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"github.com/mlnoga/starfield/internal/wcs"
	"gonum.org/v1/gonum/mat"
)

// Bits per pixel of generated images. Negative values are floating point
const Bitpix = -64

// Creates a FITS image HDU from the given axis dimensions and pixel data.
// naxisn lists the most quickly varying dimension first, i.e. (x, y).
// Only two-dimensional images are supported. If w is not nil, its cards
// are appended to the header.
func NewImageHDU(naxisn []int, data []float64, w *wcs.WCS) (fitsio.Image, error) {
	if len(naxisn) != 2 {
		return nil, fmt.Errorf("image must be 2D, got %d axes", len(naxisn))
	}
	if naxisn[0] < 1 || naxisn[1] < 1 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", naxisn[0], naxisn[1])
	}
	if len(data) != naxisn[0]*naxisn[1] {
		return nil, fmt.Errorf("data length %d does not match dimensions %dx%d", len(data), naxisn[0], naxisn[1])
	}

	img := fitsio.NewImage(Bitpix, append([]int(nil), naxisn...))
	if w != nil {
		if w.NAxis != [2]int{0, 0} && (w.NAxis[0] != naxisn[0] || w.NAxis[1] != naxisn[1]) {
			img.Close()
			return nil, fmt.Errorf("WCS for %dx%d pixels does not match image of %dx%d", w.NAxis[0], w.NAxis[1], naxisn[0], naxisn[1])
		}
		if err := img.Header().Append(w.Cards()...); err != nil {
			img.Close()
			return nil, err
		}
	}
	if err := img.Write(data); err != nil {
		img.Close()
		return nil, err
	}
	return img, nil
}

// Creates a FITS image HDU from a matrix with rows along y and columns along x
func FromDense(m *mat.Dense, w *wcs.WCS) (fitsio.Image, error) {
	if m == nil {
		return nil, errors.New("nil image")
	}
	ny, nx := m.Dims()
	raw := m.RawMatrix()
	if raw.Stride != nx {
		raw = mat.DenseCopyOf(m).RawMatrix()
	}
	return NewImageHDU([]int{nx, ny}, raw.Data, w)
}

// Writes a FITS file with the given image as primary HDU to a file
func WriteFile(fileName string, hdu fitsio.HDU) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := Write(writer, hdu); err != nil {
		return err
	}
	return writer.Flush()
}

// Writes a FITS stream with the given image as primary HDU
func Write(w io.Writer, hdu fitsio.HDU) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	if err := f.Write(hdu); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Reads the primary image of a FITS file, returning its data and header.
// Only two-dimensional images are supported.
func ReadFile(fileName string) (*mat.Dense, *fitsio.Header, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return Read(bufio.NewReader(file))
}

// Reads the primary image of a FITS stream, returning its data and header
func Read(r io.Reader) (*mat.Dense, *fitsio.Header, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, nil, errors.New("primary HDU is not an image")
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, nil, fmt.Errorf("image must be 2D, got %d axes", len(axes))
	}
	nx, ny := axes[0], axes[1]
	if nx < 1 || ny < 1 {
		return nil, nil, fmt.Errorf("invalid image dimensions %dx%d", nx, ny)
	}
	data := make([]float64, nx*ny)
	if err := img.Read(&data); err != nil {
		return nil, nil, err
	}
	return mat.NewDense(ny, nx, data), hdr, nil
}
