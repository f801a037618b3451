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

package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/starfield/internal/fits"
	"github.com/mlnoga/starfield/internal/wcs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	NewRouter(io.Discard).ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d; want 200", rec.Code)
	}
	var res map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["message"] != "pong" {
		t.Errorf("message=%q; want pong", res["message"])
	}
}

func TestGauss4(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/gauss4", `{"wcs":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s; want 200", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/fits" {
		t.Errorf("content type=%q; want application/fits", ct)
	}
	img, hdr, err := fits.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if ny, nx := img.Dims(); ny != 100 || nx != 200 {
		t.Errorf("shape=%dx%d; want 100x200", ny, nx)
	}
	if v := img.At(25, 150); v < 154 || v > 156 {
		t.Errorf("pixel(150,25)=%g; want 155", v)
	}
	if _, err := wcs.FromHeader(hdr); err != nil {
		t.Errorf("no WCS in header: %s", err.Error())
	}
}

func TestGauss100EmptyBody(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/gauss100", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s; want 200", rec.Code, rec.Body.String())
	}
	img, _, err := fits.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if ny, nx := img.Dims(); ny != 300 || nx != 500 {
		t.Errorf("shape=%dx%d; want 300x500", ny, nx)
	}
}

func TestPSF(t *testing.T) {
	body := `{"shape":{"ny":64,"nx":64},"n":10,"psf":"prf","sigma":1.5,"psfSize":11,"options":{"fluxRange":[100,200],"minSeparation":5,"seed":3},"table":true}`
	rec := doRequest(t, http.MethodPost, "/api/v1/psf", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s; want 200", rec.Code, rec.Body.String())
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "x,y,flux" {
		t.Errorf("header=%q; want x,y,flux", lines[0])
	}
	if len(lines) != 11 {
		t.Errorf("%d sources; want 10", len(lines)-1)
	}

	rec = doRequest(t, http.MethodPost, "/api/v1/psf", `{"shape":{"ny":32,"nx":48},"psf":"moffat","n":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s; want 200", rec.Code, rec.Body.String())
	}
	img, _, err := fits.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if ny, nx := img.Dims(); ny != 32 || nx != 48 {
		t.Errorf("shape=%dx%d; want 32x48", ny, nx)
	}
}

type badRequestTestCase struct {
	Path string
	Body string
}

func TestBadRequests(t *testing.T) {
	tcs := []badRequestTestCase{
		{"/api/v1/psf", `{"psf":"airy"}`},
		{"/api/v1/psf", `{"shape":{"ny":0,"nx":10}}`},
		{"/api/v1/psf", `{"shape":{"ny":100000,"nx":100000}}`},
		{"/api/v1/psf", `{"n":`},
		{"/api/v1/psf", `{"shape":{"ny":4294967296,"nx":4294967296}}`},
		{"/api/v1/psf", `{"n":35184372088832}`},
		{"/api/v1/psf", `{"n":100001}`},
		{"/api/v1/psf", `{"psf":"gaussian","sigma":1e9}`},
		{"/api/v1/psf", `{"psf":"moffat","sigma":2,"oversampling":1000000}`},
		{"/api/v1/psf", `{"oversampling":0}`},
		{"/api/v1/psf", `{"options":{"borderSize":{"ny":-100,"nx":-100}}}`},
		{"/api/v1/wcs", `{"shape":{"ny":-1,"nx":10}}`},
	}
	for _, tc := range tcs {
		rec := doRequest(t, http.MethodPost, tc.Path, tc.Body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status=%d; want 400", tc.Path, tc.Body, rec.Code)
		}
	}
}

func TestWCS(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/wcs", `{"shape":{"ny":50,"nx":80},"galactic":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s; want 200", rec.Code, rec.Body.String())
	}
	var res struct {
		Cards []struct {
			Name  string
			Value interface{}
		} `json:"cards"`
		Pipeline string       `json:"pipeline"`
		Corners  []worldPoint `json:"corners"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range res.Cards {
		if c.Name == "CTYPE1" && c.Value == "GLON-TAN" {
			found = true
		}
	}
	if !found {
		t.Errorf("cards %v lack CTYPE1=GLON-TAN", res.Cards)
	}
	if !strings.Contains(res.Pipeline, "galactic") {
		t.Errorf("pipeline %q lacks output frame", res.Pipeline)
	}
	if len(res.Corners) != 4 {
		t.Errorf("%d corners; want 4", len(res.Corners))
	}
}
