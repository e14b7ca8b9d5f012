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

// Package style normalizes user chosen QR styles into the canonical
// configuration the renderer consumes.
package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Shape is the user facing module shape.
type Shape string

const (
	ShapeSquare  Shape = "square"
	ShapeCircle  Shape = "circle"
	ShapeRounded Shape = "rounded"
)

// ModuleType is how individual data modules are drawn.
type ModuleType string

const (
	ModuleSquare  ModuleType = "square"
	ModuleDot     ModuleType = "dot"
	ModuleRounded ModuleType = "rounded"
)

// CornerType is how the three finder patterns are drawn.
type CornerType string

const (
	CornerSquare  CornerType = "square"
	CornerRounded CornerType = "rounded"
)

// Recovery is the QR error correction level chosen for a style.
type Recovery int

const (
	RecoveryMedium Recovery = iota
	RecoveryHigh
)

const (
	DefaultBackground       = "#ffffff"
	DefaultForeground       = "#000000"
	DefaultLogoSizeFraction = 0.25
	MinLogoSizeFraction     = 0.05
	// MaxLogoSizeFraction keeps the logo plate inside the High level's 30%
	// error correction budget.
	MaxLogoSizeFraction = 0.30
)

// Style is the visual style a user picks. Every field is optional.
type Style struct {
	Shape            Shape   `json:"shape,omitempty" yaml:"shape,omitempty"`
	BackgroundColor  string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	ForegroundColor  string  `json:"foregroundColor,omitempty" yaml:"foregroundColor,omitempty"`
	Logo             []byte  `json:"logo,omitempty" yaml:"-"`
	LogoSizeFraction float64 `json:"logoSizeFraction,omitempty" yaml:"logoSizeFraction,omitempty"`
}

// Canonical is a fully resolved style.
type Canonical struct {
	Shape            Shape
	Module           ModuleType
	Corner           CornerType
	Background       color.NRGBA
	Foreground       color.NRGBA
	Logo             []byte
	LogoSizeFraction float64
	Recovery         Recovery
}

// HasLogo reports whether a logo will be embossed.
func (c Canonical) HasLogo() bool {
	return len(c.Logo) > 0
}

// Style converts c back to a user style that resolves to c again.
func (c Canonical) Style() Style {
	return Style{
		Shape:            c.Shape,
		BackgroundColor:  FormatColor(c.Background),
		ForegroundColor:  FormatColor(c.Foreground),
		Logo:             c.Logo,
		LogoSizeFraction: c.LogoSizeFraction,
	}
}

// Resolve fills defaults, clamps the logo fraction and maps the shape to
// concrete module and corner types. It never fails: unusable values fall back
// to their defaults.
func Resolve(s Style) Canonical {
	shape := normalizeShape(s.Shape)
	module, corner := shapeTypes(shape)

	c := Canonical{
		Shape:            shape,
		Module:           module,
		Corner:           corner,
		Background:       ParseColor(s.BackgroundColor, mustColor(DefaultBackground)),
		Foreground:       ParseColor(s.ForegroundColor, mustColor(DefaultForeground)),
		LogoSizeFraction: clampFraction(s.LogoSizeFraction),
		Recovery:         RecoveryMedium,
	}
	if len(s.Logo) > 0 {
		c.Logo = s.Logo
		c.Recovery = RecoveryHigh
	}
	return c
}

func normalizeShape(s Shape) Shape {
	switch Shape(strings.ToLower(strings.TrimSpace(string(s)))) {
	case ShapeCircle, "dot", "dots":
		return ShapeCircle
	case ShapeRounded:
		return ShapeRounded
	default:
		return ShapeSquare
	}
}

func shapeTypes(s Shape) (ModuleType, CornerType) {
	switch s {
	case ShapeCircle:
		return ModuleDot, CornerRounded
	case ShapeRounded:
		return ModuleRounded, CornerRounded
	default:
		return ModuleSquare, CornerSquare
	}
}

func clampFraction(f float64) float64 {
	if f <= 0 || math.IsNaN(f) {
		return DefaultLogoSizeFraction
	}
	return math.Min(math.Max(f, MinLogoSizeFraction), MaxLogoSizeFraction)
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa (leading # optional) or
// "transparent". Anything else yields fallback.
func ParseColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	if s == "transparent" {
		return color.NRGBA{}
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// FormatColor renders c as #rrggbb, or #rrggbbaa when it is not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func mustColor(hex string) color.NRGBA {
	return ParseColor(hex, color.NRGBA{A: 0xff})
}
