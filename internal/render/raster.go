// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

const (
	dotScale    = 0.9
	jpegQuality = 90
)

// corners selects which corners of a rectangle are rounded, clockwise from
// top-left.
type corners [4]bool

var allCorners = corners{true, true, true, true}

// grid maps module coordinates onto pixel edges so that the symbol fills the
// image exactly.
type grid struct {
	size    int
	modules int
}

func (g grid) edge(i int) int {
	return i * g.size / g.modules
}

func (g grid) span(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(g.edge(x0), g.edge(y0), g.edge(x1), g.edge(y1))
}

// rasterize draws the symbol at size x size pixels. Pixels are either fully
// background or fully foreground.
func rasterize(m *matrix, c style.Canonical, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillRect(img, img.Bounds(), c.Background)

	g := grid{size: size, modules: m.modules}
	for y := 0; y < m.modules; y++ {
		for x := 0; x < m.modules; x++ {
			if !m.isDark(x, y) || m.inFinder(x, y) {
				continue
			}
			drawModule(img, m, g, x, y, c)
		}
	}
	for _, o := range m.finderOrigins() {
		drawFinder(img, g, o, c)
	}
	return img
}

func drawModule(img *image.NRGBA, m *matrix, g grid, x, y int, c style.Canonical) {
	r := g.span(x, y, x+1, y+1)
	switch c.Module {
	case style.ModuleDot:
		fillCircle(img, r, c.Foreground)
	case style.ModuleRounded:
		radius := float64(min(r.Dx(), r.Dy())) / 2
		fillRoundedRect(img, r, radius, openCorners(m, x, y), c.Foreground)
	default:
		fillRect(img, r, c.Foreground)
	}
}

// openCorners rounds a corner only when neither neighbour touching it is dark.
func openCorners(m *matrix, x, y int) corners {
	up, right, down, left := m.isDark(x, y-1), m.isDark(x+1, y), m.isDark(x, y+1), m.isDark(x-1, y)
	return corners{!up && !left, !up && !right, !down && !right, !down && !left}
}

func drawFinder(img *image.NRGBA, g grid, o [2]int, c style.Canonical) {
	x, y := o[0], o[1]
	outer := g.span(x, y, x+finderSize, y+finderSize)
	ring := g.span(x+1, y+1, x+finderSize-1, y+finderSize-1)
	eye := g.span(x+2, y+2, x+finderSize-2, y+finderSize-2)

	if c.Corner != style.CornerRounded {
		fillRect(img, outer, c.Foreground)
		fillRect(img, ring, c.Background)
		fillRect(img, eye, c.Foreground)
		return
	}
	fillRoundedRect(img, outer, float64(outer.Dx())*0.25, allCorners, c.Foreground)
	fillRoundedRect(img, ring, float64(ring.Dx())*0.2, allCorners, c.Background)
	fillRoundedRect(img, eye, float64(eye.Dx())*0.3, allCorners, c.Foreground)
}

func fillRect(img *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func fillCircle(img *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	radius := float64(min(r.Dx(), r.Dy())) / 2 * dotScale
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetNRGBA(px, py, col)
			}
		}
	}
}

func fillRoundedRect(img *image.NRGBA, r image.Rectangle, radius float64, round corners, col color.NRGBA) {
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			if insideRounded(float64(px)+0.5, float64(py)+0.5, r, radius, round) {
				img.SetNRGBA(px, py, col)
			}
		}
	}
}

func insideRounded(fx, fy float64, r image.Rectangle, radius float64, round corners) bool {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)

	var cx, cy float64
	corner := -1
	switch {
	case fx < x0+radius && fy < y0+radius:
		corner, cx, cy = 0, x0+radius, y0+radius
	case fx > x1-radius && fy < y0+radius:
		corner, cx, cy = 1, x1-radius, y0+radius
	case fx > x1-radius && fy > y1-radius:
		corner, cx, cy = 2, x1-radius, y1-radius
	case fx < x0+radius && fy > y1-radius:
		corner, cx, cy = 3, x0+radius, y1-radius
	}
	if corner < 0 || !round[corner] {
		return true
	}
	dx, dy := fx-cx, fy-cy
	return dx*dx+dy*dy <= radius*radius
}

// logoSide is the edge of the square the logo is fitted into.
func logoSide(size int, fraction float64) int {
	return max(1, int(math.Round(float64(size)*fraction)))
}

// plateMargin is the backing plate's overhang on each side of the logo box.
func plateMargin(side int) int {
	return max(1, side/10)
}

// embossLogo draws an opaque plate in the background color at the centre of
// img and composites logo over it.
func embossLogo(img *image.NRGBA, logo *image.NRGBA, background color.NRGBA, side int) {
	size := img.Bounds().Dx()
	margin := plateMargin(side)
	start := (size - side) / 2
	plate := image.Rect(start-margin, start-margin, start+side+margin, start+side+margin)
	fillRect(img, plate, opaque(background))

	lb := logo.Bounds()
	at := image.Pt((size-lb.Dx())/2, (size-lb.Dy())/2)
	draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(lb.Size())}, logo, lb.Min, draw.Over)
}

// opaque composites c over white.
func opaque(c color.NRGBA) color.NRGBA {
	if c.A == 0xff {
		return c
	}
	blend := func(v uint8) uint8 {
		return uint8((uint32(v)*uint32(c.A) + 0xff*uint32(0xff-c.A)) / 0xff)
	}
	return color.NRGBA{R: blend(c.R), G: blend(c.G), B: blend(c.B), A: 0xff}
}

func encodeRaster(img *image.NRGBA, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if format == FormatJPEG {
		flat := image.NewRGBA(img.Bounds())
		draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
