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
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

const (
	// sniffLen is how much of the logo is inspected for an SVG root element.
	sniffLen = 512
	// maxLogoPixels bounds the canvas a raster logo header may declare.
	maxLogoPixels = 4096 * 4096
)

// loadLogo decodes a PNG, JPEG, GIF or SVG logo and scales it to fit a
// side x side box, preserving its aspect ratio.
func loadLogo(data []byte, side int) (*image.NRGBA, error) {
	var (
		src image.Image
		err error
	)
	if isSVG(data) {
		src, err = rasterizeSVG(data, side)
	} else {
		src, err = decodeRaster(data)
	}
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, errors.New("logo has no pixels")
	}
	w, h := fitBox(float64(b.Dx()), float64(b.Dy()), side)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// decodeRaster rejects a logo whose header declares more than maxLogoPixels
// before any pixel data is decoded.
func decodeRaster(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("logo has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxLogoPixels {
		return nil, fmt.Errorf("logo is %dx%d, larger than %d pixels", cfg.Width, cfg.Height, maxLogoPixels)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	return src, err
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), sniffLen)]
	return bytes.Contains(head, []byte("<svg"))
}

func rasterizeSVG(data []byte, side int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg logo: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = 1, 1
	}
	w, h := fitBox(vw, vh, side)
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// fitBox scales w x h so the longer edge equals side.
func fitBox(w, h float64, side int) (int, int) {
	if w >= h {
		return side, max(1, int(math.Round(h*float64(side)/w)))
	}
	return max(1, int(math.Round(w*float64(side)/h))), side
}
