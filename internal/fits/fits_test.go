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
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/mlnoga/starfield/internal/wcs"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

type imageHDUTestCase struct {
	Naxisn []int
	Len    int
	Valid  bool
}

func TestNewImageHDU(t *testing.T) {
	tcs := []imageHDUTestCase{
		{[]int{3, 2}, 6, true},
		{[]int{6}, 6, false},
		{[]int{3, 2, 1}, 6, false},
		{[]int{3, 0}, 0, false},
		{[]int{3, 2}, 5, false},
	}
	for i, tc := range tcs {
		hdu, err := NewImageHDU(tc.Naxisn, make([]float64, tc.Len), nil)
		if tc.Valid && err != nil {
			t.Errorf("%d: naxisn=%v err=%s; want nil", i, tc.Naxisn, err.Error())
		}
		if !tc.Valid && err == nil {
			t.Errorf("%d: naxisn=%v err=nil; want error", i, tc.Naxisn)
		}
		if hdu != nil {
			hdu.Close()
		}
	}
}

func TestImageHDUWithWCS(t *testing.T) {
	w, err := wcs.MakeWCS(2, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	hdu, err := NewImageHDU([]int{3, 2}, []float64{1, 2, 3, 4, 5, 6}, w)
	if err != nil {
		t.Fatal(err)
	}
	defer hdu.Close()
	if hdu.Type() != fitsio.IMAGE_HDU || hdu.Header().Bitpix() != Bitpix {
		t.Errorf("type=%v bitpix=%d; want image HDU with bitpix %d", hdu.Type(), hdu.Header().Bitpix(), Bitpix)
	}
	if axes := hdu.Header().Axes(); len(axes) != 2 || axes[0] != 3 || axes[1] != 2 {
		t.Errorf("axes=%v; want [3 2]", axes)
	}
	for _, key := range []string{"CTYPE1", "CTYPE2", "CRPIX1", "CRVAL2", "CD1_1", "RADESYS"} {
		if hdu.Header().Get(key) == nil {
			t.Errorf("header has no %s; want WCS card", key)
		}
	}
	if v := hdu.Header().Get("CTYPE1").Value; v != "RA---TAN" {
		t.Errorf("CTYPE1=%v; want RA---TAN", v)
	}

	other, err := wcs.MakeWCS(5, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewImageHDU([]int{3, 2}, make([]float64, 6), other); err == nil {
		t.Errorf("mismatched WCS err=nil; want error")
	}
}

func TestWriteRead(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6.5})
	w, err := wcs.MakeWCS(2, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	hdu, err := FromDense(m, w)
	if err != nil {
		t.Fatal(err)
	}
	defer hdu.Close()

	var buf bytes.Buffer
	if err := Write(&buf, hdu); err != nil {
		t.Fatal(err)
	}
	if buf.Len()%2880 != 0 {
		t.Errorf("file size %d; want multiple of 2880", buf.Len())
	}

	got, hdr, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(got, m) {
		t.Errorf("read back %v; want %v", mat.Formatted(got), mat.Formatted(m))
	}
	rw, err := wcs.FromHeader(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if !rw.Galactic() || rw.CRPix != w.CRPix {
		t.Errorf("read back WCS %+v; want %+v", rw, w)
	}
}

func TestFromDenseView(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	view := m.Slice(1, 3, 1, 3).(*mat.Dense)
	hdu, err := FromDense(view, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer hdu.Close()
	var buf bytes.Buffer
	if err := Write(&buf, hdu); err != nil {
		t.Fatal(err)
	}
	got, _, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := mat.NewDense(2, 2, []float64{5, 6, 8, 9})
	if !mat.Equal(got, want) {
		t.Errorf("read back %v; want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestPreviews(t *testing.T) {
	m := mat.NewDense(4, 8, nil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			m.Set(y, x, float64(x*10))
		}
	}

	var buf bytes.Buffer
	if err := WriteMonoTIFF16(&buf, m, 0, 70, 1); err != nil {
		t.Fatal(err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("tiff bounds %v; want 8x4", b)
	}
	if g, ok := img.(*image.Gray16); !ok || g.Gray16At(7, 0).Y != 65535 || g.Gray16At(0, 3).Y != 0 {
		t.Errorf("tiff pixels do not span the full range")
	}

	ramp, err := ParseRamp("#000000", "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []*Ramp{nil, ramp} {
		buf.Reset()
		if err := WriteMonoJPG(&buf, m, 0, 70, 2.2, 90, r); err != nil {
			t.Fatal(err)
		}
		jpg, err := jpeg.Decode(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if b := jpg.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
			t.Errorf("jpeg bounds %v; want 8x4", b)
		}
	}

	if _, err := ParseRamp("red", "#ffffff"); err == nil {
		t.Errorf("invalid color err=nil; want error")
	}
}

func TestNormalize(t *testing.T) {
	if v := normalize(5, 0, 10, 1); v != 0.5 {
		t.Errorf("normalize(5)=%g; want 0.5", v)
	}
	if v := normalize(-1, 0, 10, 1); v != 0 {
		t.Errorf("normalize(-1)=%g; want 0", v)
	}
	if v := normalize(20, 0, 10, 2); v != 1 {
		t.Errorf("normalize(20)=%g; want 1", v)
	}
}
