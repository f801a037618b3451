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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestResolve(t *testing.T) {
	g := NewGaussian2D(1, 1)
	p := Resolve(g, Params{"amplitude": 7, "flux": 3, "x_mean": 2})
	if p["amplitude"] != 7 {
		t.Errorf("amplitude=%f; want 7", p["amplitude"])
	}
	if p["x_mean"] != 2 {
		t.Errorf("x_mean=%f; want 2", p["x_mean"])
	}
	if p["y_stddev"] != 1 {
		t.Errorf("y_stddev=%f; want default 1", p["y_stddev"])
	}
	if _, ok := p["flux"]; ok {
		t.Errorf("flux present; want unknown parameter dropped")
	}
	if g.Defaults()["amplitude"] != 1 {
		t.Errorf("defaults modified by Resolve")
	}
}

type gaussianEvalTestCase struct {
	P    Params
	X, Y float64
	Want float64
}

func TestGaussian2DEval(t *testing.T) {
	epsilon := 1e-12
	g := NewGaussian2D(1, 1)
	tcs := []gaussianEvalTestCase{
		{Params{"amplitude": 5, "x_mean": 3, "y_mean": 4}, 3, 4, 5},
		{Params{"amplitude": 1}, 1, 0, math.Exp(-0.5)},
		{Params{"amplitude": 2, "x_stddev": 2, "y_stddev": 1}, 2, 0, 2 * math.Exp(-0.5)},
		{Params{"amplitude": 2, "x_stddev": 2, "y_stddev": 1}, 0, 1, 2 * math.Exp(-0.5)},
		// rotating by 90 degrees swaps the axes
		{Params{"amplitude": 2, "x_stddev": 2, "y_stddev": 1, "theta": math.Pi / 2}, 0, 2, 2 * math.Exp(-0.5)},
		{Params{"amplitude": 2, "x_stddev": 2, "y_stddev": 1, "theta": math.Pi / 2}, 1, 0, 2 * math.Exp(-0.5)},
	}
	for i, tc := range tcs {
		got := g.Eval(tc.X, tc.Y, Resolve(g, tc.P))
		if math.Abs(got-tc.Want) > epsilon {
			t.Errorf("%d: eval(%g,%g)=%g; want %g", i, tc.X, tc.Y, got, tc.Want)
		}
	}
}

func TestEllipseExtent(t *testing.T) {
	epsilon := 1e-9
	dx, dy := EllipseExtent(3, 1, 0)
	if math.Abs(dx-3) > epsilon || math.Abs(dy-1) > epsilon {
		t.Errorf("extent=(%g,%g); want (3,1)", dx, dy)
	}
	dx, dy = EllipseExtent(3, 1, math.Pi/2)
	if math.Abs(dx-1) > epsilon || math.Abs(dy-3) > epsilon {
		t.Errorf("extent=(%g,%g); want (1,3)", dx, dy)
	}
	dx, dy = EllipseExtent(2, 2, 0.7)
	if math.Abs(dx-2) > epsilon || math.Abs(dy-2) > epsilon {
		t.Errorf("extent=(%g,%g); want (2,2)", dx, dy)
	}
}

func TestGaussianFluxConvergence(t *testing.T) {
	g := NewGaussian2D(1, 1)
	flux, sigma := 1000.0, 2.0
	amp := GaussianAmplitude(flux, sigma, sigma)
	if f := GaussianFlux(amp, sigma, sigma); math.Abs(f-flux) > 1e-9 {
		t.Errorf("flux=%g; want %g", f, flux)
	}

	prevErr := math.Inf(1)
	for _, size := range []int{8, 16, 64} {
		c := float64(size) / 2
		p := Params{"amplitude": amp, "x_mean": c, "y_mean": c, "x_stddev": sigma, "y_stddev": sigma}
		img, err := Discretize(g, p, size, size, 1)
		if err != nil {
			t.Fatal(err)
		}
		sumErr := math.Abs(floats.Sum(img.RawMatrix().Data) - flux)
		if sumErr > prevErr {
			t.Errorf("size=%d error=%g; want <= %g", size, sumErr, prevErr)
		}
		prevErr = sumErr
	}
	if prevErr > 1e-6*flux {
		t.Errorf("error=%g; want < %g", prevErr, 1e-6*flux)
	}
}

func TestIntegratedGaussianPRFSum(t *testing.T) {
	prf := NewIntegratedGaussianPRF(2)
	p := Params{"flux": 123, "x_0": 20, "y_0": 20}
	img, err := Discretize(prf, p, 41, 41, 1)
	if err != nil {
		t.Fatal(err)
	}
	sum := floats.Sum(img.RawMatrix().Data)
	if math.Abs(sum-123) > 1e-9 {
		t.Errorf("sum=%.12g; want 123", sum)
	}
	box := prf.BoundingBox(Resolve(prf, p))
	ny, nx := box.Shape()
	if ny != 23 || nx != 23 {
		t.Errorf("bbox shape=%dx%d; want 23x23", ny, nx)
	}
}

func TestMoffat2DFWHM(t *testing.T) {
	m := NewMoffat2D()
	for _, alpha := range []float64{1, 2.5, 4} {
		p := Resolve(m, Params{"amplitude": 10, "gamma": 3, "alpha": alpha})
		half := m.FWHM(p) / 2
		v := m.Eval(half, 0, p)
		if math.Abs(v-5) > 1e-9 {
			t.Errorf("alpha=%g value at hwhm=%g; want 5", alpha, v)
		}
	}
}

func TestOversampleConvergence(t *testing.T) {
	g := NewGaussian2D(1, 1)
	p := Params{"amplitude": 1, "x_mean": 7.3, "y_mean": 6.8, "x_stddev": 0.8, "y_stddev": 1.1, "theta": 0.4}
	ref, err := Discretize(g, p, 15, 15, 32)
	if err != nil {
		t.Fatal(err)
	}

	prevDiff := math.Inf(1)
	for _, factor := range []int{1, 2, 4, 8} {
		img, err := Discretize(g, p, 15, 15, factor)
		if err != nil {
			t.Fatal(err)
		}
		var diff mat.Dense
		diff.Sub(img, ref)
		maxDiff := math.Max(mat.Max(&diff), -mat.Min(&diff))
		if maxDiff >= prevDiff {
			t.Errorf("factor=%d maxDiff=%g; want < %g", factor, maxDiff, prevDiff)
		}
		prevDiff = maxDiff
	}
	if prevDiff > 1e-2 {
		t.Errorf("factor=8 maxDiff=%g; want < 1e-2", prevDiff)
	}

	if _, err := Discretize(g, p, 15, 15, 0); err == nil {
		t.Errorf("factor=0 err=nil; want error")
	}
}

func TestImagePSF(t *testing.T) {
	prf := NewIntegratedGaussianPRF(2)
	psf, err := SampleImagePSF(prf, nil, 25, 25, 4)
	if err != nil {
		t.Fatal(err)
	}
	ny, nx := psf.DataShape()
	if ny != 100 || nx != 100 {
		t.Errorf("data shape=%dx%d; want 100x100", ny, nx)
	}

	p := Params{"flux": 50, "x_0": 20, "y_0": 20}
	img, err := Discretize(psf, p, 41, 41, 1)
	if err != nil {
		t.Fatal(err)
	}
	sum := floats.Sum(img.RawMatrix().Data)
	if math.Abs(sum-50) > 0.5 {
		t.Errorf("sum=%g; want 50", sum)
	}
	if v := img.At(0, 0); v != 0 {
		t.Errorf("value outside PSF support=%g; want 0", v)
	}
	if img.At(20, 20) <= img.At(20, 22) {
		t.Errorf("center %g not brighter than offset %g", img.At(20, 20), img.At(20, 22))
	}

	if _, err := NewImagePSF(mat.NewDense(3, 3, nil), 1, 1); err == nil {
		t.Errorf("zero PSF err=nil; want error")
	}
	if _, err := NewImagePSF(mat.NewDense(3, 3, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}), 0, 1); err == nil {
		t.Errorf("oversampling 0 err=nil; want error")
	}
}

type newPSFTestCase struct {
	Kind  string
	Sigma float64
	Valid bool
}

func TestNewPSF(t *testing.T) {
	tcs := []newPSFTestCase{
		{"prf", 1.5, true},
		{"gaussian", 1.5, true},
		{"moffat", 1.5, true},
		{"airy", 1.5, false},
		{"prf", 0, false},
		{"gaussian", 1e9, false},
		{"moffat", 1e5, false},
	}
	for _, tc := range tcs {
		psf, err := NewPSF(tc.Kind, tc.Sigma, 2)
		if !tc.Valid {
			if err == nil {
				t.Errorf("%s sigma=%g err=nil; want error", tc.Kind, tc.Sigma)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"flux", "x_0", "y_0"} {
			if !HasParam(psf, name) {
				t.Errorf("%s has no parameter %s", tc.Kind, name)
			}
		}
		img, err := Discretize(psf, Params{"flux": 10, "x_0": 12, "y_0": 12}, 25, 25, 1)
		if err != nil {
			t.Fatal(err)
		}
		if sum := floats.Sum(img.RawMatrix().Data); sum < 8 || sum > 10.5 {
			t.Errorf("%s sum=%g; want about 10", tc.Kind, sum)
		}
	}

	if _, err := NewPSF("gaussian", 2, 0); err == nil {
		t.Errorf("oversampling 0 err=nil; want error")
	}
	if _, err := NewPSF("moffat", 2, 100000); err == nil {
		t.Errorf("oversampling 100000 err=nil; want error")
	}
}
