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
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// vectorSVG writes the symbol as SVG markup in module units scaled to
// size x size. A logo is embedded as a PNG data URI.
func vectorSVG(m *matrix, c style.Canonical, size int, logo *image.NRGBA) ([]byte, error) {
	n := m.modules
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d"`, n, n, size, size)
	if c.Module == style.ModuleSquare {
		sb.WriteString(` shape-rendering="crispEdges"`)
	}
	sb.WriteString(`>`)

	if c.Background.A > 0 {
		fmt.Fprintf(&sb, `<rect width="%d" height="%d"%s/>`, n, n, fillAttr(c.Background))
	}

	fmt.Fprintf(&sb, `<g%s>`, fillAttr(c.Foreground))
	writeModules(&sb, m, c.Module)
	for _, o := range m.finderOrigins() {
		writeFinder(&sb, o, c)
	}
	sb.WriteString(`</g>`)

	if logo != nil {
		if err := writeLogo(&sb, logo, c, n); err != nil {
			return nil, err
		}
	}

	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

func writeModules(sb *strings.Builder, m *matrix, module style.ModuleType) {
	switch module {
	case style.ModuleDot:
		r := num(0.5 * dotScale)
		for y := 0; y < m.modules; y++ {
			for x := 0; x < m.modules; x++ {
				if m.isDark(x, y) && !m.inFinder(x, y) {
					fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s"/>`, num(float64(x)+0.5), num(float64(y)+0.5), r)
				}
			}
		}
	case style.ModuleRounded:
		sb.WriteString(`<path d="`)
		for y := 0; y < m.modules; y++ {
			for x := 0; x < m.modules; x++ {
				if m.isDark(x, y) && !m.inFinder(x, y) {
					sb.WriteString(roundedPath(float64(x), float64(y), 1, 1, 0.5, openCorners(m, x, y)))
				}
			}
		}
		sb.WriteString(`"/>`)
	default:
		// Horizontal runs keep the path short.
		sb.WriteString(`<path d="`)
		for y := 0; y < m.modules; y++ {
			for x := 0; x < m.modules; {
				if !m.isDark(x, y) || m.inFinder(x, y) {
					x++
					continue
				}
				run := 0
				for x+run < m.modules && m.isDark(x+run, y) && !m.inFinder(x+run, y) {
					run++
				}
				fmt.Fprintf(sb, "M%d %dh%dv1h-%dz", x, y, run, run)
				x += run
			}
		}
		sb.WriteString(`"/>`)
	}
}

func writeFinder(sb *strings.Builder, o [2]int, c style.Canonical) {
	x, y := float64(o[0]), float64(o[1])
	var outer, ring, eye float64
	if c.Corner == style.CornerRounded {
		outer, ring, eye = finderSize*0.25, (finderSize-2)*0.2, (finderSize-4)*0.3
	}
	fmt.Fprintf(sb, `<path fill-rule="evenodd" d="%s%s"/>`,
		roundedPath(x, y, finderSize, finderSize, outer, allCorners),
		roundedPath(x+1, y+1, finderSize-2, finderSize-2, ring, allCorners))
	fmt.Fprintf(sb, `<path d="%s"/>`, roundedPath(x+2, y+2, finderSize-4, finderSize-4, eye, allCorners))
}

func writeLogo(sb *strings.Builder, logo *image.NRGBA, c style.Canonical, n int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, logo); err != nil {
		return err
	}

	side := float64(n) * c.LogoSizeFraction
	margin := side / 10
	start := (float64(n) - side) / 2

	fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`,
		num(start-margin), num(start-margin), num(side+2*margin), num(side+2*margin), fillAttr(opaque(c.Background)))
	fmt.Fprintf(sb, `<image x="%s" y="%s" width="%s" height="%s" href="data:image/png;base64,%s"/>`,
		num(start), num(start), num(side), num(side), base64.StdEncoding.EncodeToString(buf.Bytes()))
	return nil
}

// roundedPath is a closed path for a rectangle whose selected corners are
// rounded with radius r.
func roundedPath(x, y, w, h, r float64, round corners) string {
	rad := func(i int) float64 {
		if round[i] {
			return r
		}
		return 0
	}
	tl, tr, br, bl := rad(0), rad(1), rad(2), rad(3)

	var sb strings.Builder
	fmt.Fprintf(&sb, "M%s %s", num(x+tl), num(y))
	fmt.Fprintf(&sb, "H%s", num(x+w-tr))
	if tr > 0 {
		fmt.Fprintf(&sb, "A%s %s 0 0 1 %s %s", num(tr), num(tr), num(x+w), num(y+tr))
	}
	fmt.Fprintf(&sb, "V%s", num(y+h-br))
	if br > 0 {
		fmt.Fprintf(&sb, "A%s %s 0 0 1 %s %s", num(br), num(br), num(x+w-br), num(y+h))
	}
	fmt.Fprintf(&sb, "H%s", num(x+bl))
	if bl > 0 {
		fmt.Fprintf(&sb, "A%s %s 0 0 1 %s %s", num(bl), num(bl), num(x), num(y+h-bl))
	}
	fmt.Fprintf(&sb, "V%s", num(y+tl))
	if tl > 0 {
		fmt.Fprintf(&sb, "A%s %s 0 0 1 %s %s", num(tl), num(tl), num(x+tl), num(y))
	}
	sb.WriteString("Z")
	return sb.String()
}

func fillAttr(c color.NRGBA) string {
	attr := fmt.Sprintf(` fill="#%02x%02x%02x"`, c.R, c.G, c.B)
	if c.A != 0xff {
		attr += fmt.Sprintf(` fill-opacity="%s"`, num(float64(c.A)/0xff))
	}
	return attr
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
