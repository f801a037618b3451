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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	"gonum.org/v1/gonum/mat"

	sf "github.com/mlnoga/starfield/internal"
	"github.com/mlnoga/starfield/internal/fits"
	"github.com/mlnoga/starfield/internal/model"
	"github.com/mlnoga/starfield/internal/render"
	"github.com/mlnoga/starfield/internal/rest"
	"github.com/mlnoga/starfield/internal/stats"
	"github.com/mlnoga/starfield/internal/table"
	"github.com/mlnoga/starfield/internal/wcs"
)

const version = "0.1.0"

var totalMiBs = memory.TotalMemory() / 1024 / 1024

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")

var out = flag.String("out", "out.fits", "save output to `file`")
var tif = flag.String("tiff", "", "save 16bit preview of output as TIFF to `file`. `%auto` replaces suffix of output file with .tif")
var jpg = flag.String("jpg", "%auto", "save 8bit preview of output as JPEG to `file`. `%auto` replaces suffix of output file with .jpg")
var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")
var tab = flag.String("table", "%auto", "save source table of the psf command as CSV to `file`. `%auto` replaces suffix of output file with .csv")

var noise = flag.Bool("noise", false, "add noise to the example images")
var galactic = flag.Bool("galactic", false, "use galactic instead of equatorial world coordinates")
var withWCS = flag.Bool("wcs", true, "add world coordinates to the FITS header")

var nx = flag.Int("nx", 101, "image width in pixels")
var ny = flag.Int("ny", 101, "image height in pixels")
var n = flag.Int("n", 25, "number of sources")
var psfKind = flag.String("psf", "prf", "PSF model, one of prf, gaussian, moffat")
var sigma = flag.Float64("sigma", 2, "PSF width: standard deviation for prf and gaussian, core width for moffat")
var oversampling = flag.Int("oversampling", 4, "oversampling factor for sampled PSF models")
var psfSize = flag.Int("psfSize", 25, "size of the PSF evaluation window in pixels")
var minSep = flag.Float64("minSep", 1, "minimum separation between sources in pixels")
var fluxLow = flag.Float64("fluxLow", 100, "lower bound of source fluxes")
var fluxHigh = flag.Float64("fluxHigh", 1000, "upper bound of source fluxes")
var seed = flag.Int64("seed", 0, "random seed for source positions and fluxes")

var gamma = flag.Float64("gamma", 2.2, "apply output gamma to previews, 1: keep linear light data")
var rampLow = flag.String("rampLow", "", "color ramp for JPEG previews: hex color for black, e.g. #000020. Empty for grayscale")
var rampHigh = flag.String("rampHigh", "#ffe8c0", "color ramp for JPEG previews: hex color for white")

var addr = flag.String("addr", ":8080", "listen address for the serve command")
var chroot = flag.String("chroot", "", "chroot to the given `directory` before serving")
var setuid = flag.Int("setuid", -1, "change user id to the given value before serving, -1: keep")

func main() {
	logWriter := sf.LogWriter()
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Starfield Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (gauss4|gauss100|psf|wcs|stats|serve|legal|version) (img0.fits ... imgn.fits)

Commands:
  gauss4   Generate an image with four elliptical gaussian sources
  gauss100 Generate an image with one hundred random gaussian sources
  psf      Generate an image with PSF sources at random positions
  wcs      Show the world coordinate system for an image of the given size
  stats    Show input image statistics
  serve    Serve the generators via REST API
  legal    Show license and attribution information
  version  Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	*log = autoName(*log, ".log")
	if *log != "" {
		if err := sf.LogAlsoToFile(*log); err != nil {
			sf.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}
	*jpg = autoName(*jpg, ".jpg")
	*tif = autoName(*tif, ".tif")
	*tab = autoName(*tab, ".csv")

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			sf.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			sf.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		sf.LogAtFatal(pprof.StopCPUProfile)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	var err error
	switch args[0] {
	case "gauss4":
		err = cmdExample(render.FourGaussiansImage, logWriter)
	case "gauss100":
		err = cmdExample(render.HundredGaussiansImage, logWriter)
	case "psf":
		err = cmdPSF(logWriter)
	case "wcs":
		err = cmdWCS(logWriter)
	case "stats":
		err = cmdStats(args[1:], logWriter)
	case "serve":
		if err = rest.MakeSandbox(*chroot, *setuid, logWriter); err == nil {
			err = rest.Serve(*addr, logWriter)
		}
	case "legal":
		sf.LogPrint(legal)
	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
		fmt.Fprintf(logWriter, "CPU %s with %d logical cores, features %s\n", cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, cpuid.CPU.Features.String())
		fmt.Fprintf(logWriter, "%d MiB physical memory, %s %s/%s\n", totalMiBs, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	case "help", "?":
		flag.Usage()
	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	if err != nil {
		sf.LogFatalf("Error: %s\n", err.Error())
	}
	fmt.Fprintf(logWriter, "\nDone after %v\n", time.Since(start))
	sf.LogClose()
}

// Replaces %auto with the output file name with the given suffix
func autoName(name, suffix string) string {
	if name != "%auto" {
		return name
	}
	if *out == "" {
		return ""
	}
	return strings.TrimSuffix(*out, filepath.Ext(*out)) + suffix
}

// Refuses to generate images which would use more than 70% of physical memory.
// Generation holds the image plus one copy for encoding.
func checkMemory(shape render.Shape) error {
	needMiBs := uint64(shape.NY) * uint64(shape.NX) * 8 * 2 / 1024 / 1024
	if limit := totalMiBs * 7 / 10; needMiBs > limit {
		return fmt.Errorf("image %v needs %d MiB, more than the %d MiB limit", shape, needMiBs, limit)
	}
	return nil
}

// Generate one of the canned example images
func cmdExample(gen func(noise bool) (*mat.Dense, error), logWriter io.Writer) error {
	img, err := gen(*noise)
	if err != nil {
		return err
	}
	return save(img, nil, logWriter)
}

// Generate PSF test data
func cmdPSF(logWriter io.Writer) error {
	shape := render.Shape{NY: *ny, NX: *nx}
	if err := shape.Validate(); err != nil {
		return err
	}
	if err := checkMemory(shape); err != nil {
		return err
	}
	psf, err := model.NewPSF(*psfKind, *sigma, *oversampling)
	if err != nil {
		return err
	}
	opts := render.DefaultPSFDataOptions()
	opts.FluxRange = [2]float64{*fluxLow, *fluxHigh}
	opts.MinSeparation = *minSep
	opts.Seed = *seed
	opts.Progress = true

	fmt.Fprintf(logWriter, "Generating %d %s sources on a %v image with seed %d...\n", *n, psf.Name(), shape, *seed)
	img, sources, err := render.PSFTestData(shape, psf, render.Shape{NY: *psfSize, NX: *psfSize}, *n, opts, logWriter)
	if err != nil {
		return err
	}
	if sources.Len() < *n {
		fmt.Fprintf(logWriter, "Generated %d of %d sources with minimum separation %g\n", sources.Len(), *n, *minSep)
	}
	return save(img, sources, logWriter)
}

// Show the world coordinate system of an image of the given size
func cmdWCS(logWriter io.Writer) error {
	w, err := wcs.MakeWCS(*ny, *nx, *galactic)
	if err != nil {
		return err
	}
	for _, c := range w.Cards() {
		fmt.Fprintf(logWriter, "%-8s= %-20v / %s\n", c.Name, c.Value, c.Comment)
	}
	p, err := wcs.MakePipeline(*ny, *nx, *galactic)
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "\n%s\n", p.String())

	for _, xy := range [][2]float64{{0, 0}, {float64(*nx - 1), float64(*ny - 1)}} {
		lon, lat := w.PixelToWorld(xy[0], xy[1])
		fmt.Fprintf(logWriter, "Pixel (%g, %g) is at (%.8f, %.8f)\n", xy[0], xy[1], lon, lat)
	}
	return nil
}

// Show statistics for the given FITS files
func cmdStats(fileNames []string, logWriter io.Writer) error {
	if len(fileNames) == 0 {
		return fmt.Errorf("no input files")
	}
	for _, name := range fileNames {
		img, hdr, err := fits.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%s: %s", name, err.Error())
		}
		s, err := stats.NewStats(img)
		if err != nil {
			return fmt.Errorf("%s: %s", name, err.Error())
		}
		ny, nx := img.Dims()
		fmt.Fprintf(logWriter, "%s: %dx%d %s\n", name, ny, nx, s)
		if w, err := wcs.FromHeader(hdr); err == nil {
			lon, lat := w.PixelToWorld(float64(nx-1)/2, float64(ny-1)/2)
			fmt.Fprintf(logWriter, "%s: %s center at (%.8f, %.8f)\n", name, w.CType[0], lon, lat)
		}
	}
	return nil
}

// Write the image as FITS, with optional previews and source table
func save(img *mat.Dense, sources *table.Table, logWriter io.Writer) error {
	ny, nx := img.Dims()
	var w *wcs.WCS
	if *withWCS {
		var err error
		if w, err = wcs.MakeWCS(ny, nx, *galactic); err != nil {
			return err
		}
	}

	if *out != "" {
		hdu, err := fits.FromDense(img, w)
		if err != nil {
			return err
		}
		defer hdu.Close()
		fmt.Fprintf(logWriter, "Writing FITS to %s ...\n", *out)
		if err := fits.WriteFile(*out, hdu); err != nil {
			return err
		}
	}

	if *jpg != "" || *tif != "" {
		s, err := stats.NewStats(img)
		if err != nil {
			return err
		}
		fmt.Fprintf(logWriter, "%s\n", s)
		black := s.Location
		if *tif != "" {
			fmt.Fprintf(logWriter, "Writing TIFF to %s ...\n", *tif)
			if err := fits.WriteMonoTIFF16ToFile(*tif, img, black, s.Max, *gamma); err != nil {
				return err
			}
		}
		if *jpg != "" {
			var ramp *fits.Ramp
			if *rampLow != "" {
				if ramp, err = fits.ParseRamp(*rampLow, *rampHigh); err != nil {
					return err
				}
			}
			fmt.Fprintf(logWriter, "Writing JPG to %s ...\n", *jpg)
			if err := fits.WriteMonoJPGToFile(*jpg, img, black, s.Max, *gamma, 95, ramp); err != nil {
				return err
			}
		}
	}

	if sources != nil && *tab != "" {
		fmt.Fprintf(logWriter, "Writing %d sources to %s ...\n", sources.Len(), *tab)
		f, err := os.Create(*tab)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := sources.WriteCSV(f); err != nil {
			return err
		}
	}
	return nil
}
