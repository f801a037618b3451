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
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/mat"

	"github.com/mlnoga/starfield/internal/fits"
	"github.com/mlnoga/starfield/internal/model"
	"github.com/mlnoga/starfield/internal/render"
	"github.com/mlnoga/starfield/internal/wcs"
)

// Largest image in pixels the server will generate
var MaxPixels = 64 * 1024 * 1024

// Largest number of sources the server will place in a PSF image
var MaxSources = 100000

// Creates the router for the REST API. Request arguments are echoed to logWriter
func NewRouter(logWriter io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logWriter), gin.Recovery())
	h := handlers{logWriter: logWriter}
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/gauss4", h.postGauss4)
			v1.POST("/gauss100", h.postGauss100)
			v1.POST("/psf", h.postPSF)
			v1.POST("/wcs", h.postWCS)
		}
	}
	return r
}

// Listens and serves the REST API on the given address, e.g. ":8080"
func Serve(addr string, logWriter io.Writer) error {
	gin.DefaultWriter = logWriter
	return NewRouter(logWriter).Run(addr)
}

type handlers struct {
	logWriter io.Writer
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

// Binds the request body to args, keeping the defaults if the body is empty
func (h handlers) bindArgs(c *gin.Context, args interface{}) bool {
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return false
		}
	}
	if err := printArgs(h.logWriter, c.Request.URL.Path+" arguments:\n", "\n", args); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Sends the image as FITS file, with an optional celestial WCS
func sendFITS(c *gin.Context, img *mat.Dense, withWCS, galactic bool) {
	var w *wcs.WCS
	if withWCS {
		ny, nx := img.Dims()
		var err error
		if w, err = wcs.MakeWCS(ny, nx, galactic); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	hdu, err := fits.FromDense(img, w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer hdu.Close()

	var buf bytes.Buffer
	if err := fits.Write(&buf, hdu); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/fits", buf.Bytes())
}

type postExampleArgs struct {
	Noise    bool `json:"noise"`
	WCS      bool `json:"wcs"`
	Galactic bool `json:"galactic"`
}

func (h handlers) postGauss4(c *gin.Context) {
	var args postExampleArgs
	if !h.bindArgs(c, &args) {
		return
	}
	img, err := render.FourGaussiansImage(args.Noise)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFITS(c, img, args.WCS, args.Galactic)
}

func (h handlers) postGauss100(c *gin.Context) {
	var args postExampleArgs
	if !h.bindArgs(c, &args) {
		return
	}
	img, err := render.HundredGaussiansImage(args.Noise)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFITS(c, img, args.WCS, args.Galactic)
}

type postPSFArgs struct {
	Shape        render.Shape          `json:"shape"`
	N            int                   `json:"n"`
	PSF          string                `json:"psf"`
	Sigma        float64               `json:"sigma"`
	Oversampling int                   `json:"oversampling"`
	PSFSize      int                   `json:"psfSize"`
	Options      render.PSFDataOptions `json:"options"`
	WCS          bool                  `json:"wcs"`
	Galactic     bool                  `json:"galactic"`
	Table        bool                  `json:"table"` // return the source table as CSV instead of the image
}

func defaultPSFArgs() postPSFArgs {
	return postPSFArgs{
		Shape:        render.Shape{NY: 101, NX: 101},
		N:            25,
		PSF:          "prf",
		Sigma:        2,
		Oversampling: 4,
		PSFSize:      25,
		Options:      render.DefaultPSFDataOptions(),
	}
}

func (h handlers) postPSF(c *gin.Context) {
	args := defaultPSFArgs()
	if !h.bindArgs(c, &args) {
		return
	}
	if err := args.Shape.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if args.Shape.NY > MaxPixels/args.Shape.NX {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image %v exceeds %d pixels", args.Shape, MaxPixels)})
		return
	}
	if args.N > MaxSources {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%d sources exceed %d", args.N, MaxSources)})
		return
	}
	psf, err := model.NewPSF(args.PSF, args.Sigma, args.Oversampling)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, sources, err := render.PSFTestData(args.Shape, psf, render.Shape{NY: args.PSFSize, NX: args.PSFSize},
		args.N, args.Options, h.logWriter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if args.Table {
		var buf bytes.Buffer
		if err := sources.WriteCSV(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}
	sendFITS(c, img, args.WCS, args.Galactic)
}

type postWCSArgs struct {
	Shape    render.Shape `json:"shape"`
	Galactic bool         `json:"galactic"`
}

// A pixel position with its world coordinates
type worldPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (h handlers) postWCS(c *gin.Context) {
	args := postWCSArgs{Shape: render.Shape{NY: 100, NX: 100}}
	if !h.bindArgs(c, &args) {
		return
	}
	w, err := wcs.MakeWCS(args.Shape.NY, args.Shape.NX, args.Galactic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := wcs.MakePipeline(args.Shape.NY, args.Shape.NX, args.Galactic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxX, maxY := float64(args.Shape.NX-1), float64(args.Shape.NY-1)
	var corners []worldPoint
	for _, xy := range [][2]float64{{0, 0}, {maxX, 0}, {0, maxY}, {maxX, maxY}} {
		lon, lat := w.PixelToWorld(xy[0], xy[1])
		corners = append(corners, worldPoint{X: xy[0], Y: xy[1], Lon: lon, Lat: lat})
	}
	c.JSON(http.StatusOK, gin.H{
		"cards":    w.Cards(),
		"pipeline": p.String(),
		"corners":  corners,
	})
}
