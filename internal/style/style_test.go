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

package style

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Defaults(t *testing.T) {
	c := Resolve(Style{})

	assert.Equal(t, ShapeSquare, c.Shape)
	assert.Equal(t, ModuleSquare, c.Module)
	assert.Equal(t, CornerSquare, c.Corner)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.Background)
	assert.Equal(t, color.NRGBA{A: 255}, c.Foreground)
	assert.Equal(t, DefaultLogoSizeFraction, c.LogoSizeFraction)
	assert.False(t, c.HasLogo())
	assert.Equal(t, RecoveryMedium, c.Recovery)
}

func TestResolve_ShapeMapping(t *testing.T) {
	tests := []struct {
		in     Shape
		shape  Shape
		module ModuleType
		corner CornerType
	}{
		{"square", ShapeSquare, ModuleSquare, CornerSquare},
		{"CIRCLE", ShapeCircle, ModuleDot, CornerRounded},
		{"dots", ShapeCircle, ModuleDot, CornerRounded},
		{"rounded", ShapeRounded, ModuleRounded, CornerRounded},
		{"hexagon", ShapeSquare, ModuleSquare, CornerSquare},
	}
	for _, tt := range tests {
		c := Resolve(Style{Shape: tt.in})
		assert.Equal(t, tt.shape, c.Shape, tt.in)
		assert.Equal(t, tt.module, c.Module, tt.in)
		assert.Equal(t, tt.corner, c.Corner, tt.in)
	}
}

func TestResolve_ClampsLogoFraction(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, DefaultLogoSizeFraction},
		{-1, DefaultLogoSizeFraction},
		{math.NaN(), DefaultLogoSizeFraction},
		{0.01, MinLogoSizeFraction},
		{0.2, 0.2},
		{0.45, MaxLogoSizeFraction},
		{1, MaxLogoSizeFraction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(Style{LogoSizeFraction: tt.in}).LogoSizeFraction, tt.in)
	}
}

func TestResolve_LogoRaisesRecovery(t *testing.T) {
	c := Resolve(Style{Logo: []byte{1, 2, 3}})
	assert.True(t, c.HasLogo())
	assert.Equal(t, RecoveryHigh, c.Recovery)
}

func TestResolve_Idempotent(t *testing.T) {
	styles := []Style{
		{},
		{Shape: "circle", BackgroundColor: "#abc", ForegroundColor: "112233"},
		{Shape: "rounded", BackgroundColor: "transparent", ForegroundColor: "#11223380", LogoSizeFraction: 0.9},
		{BackgroundColor: "not-a-color", Logo: []byte("logo"), LogoSizeFraction: 0.12},
	}
	for _, s := range styles {
		once := Resolve(s)
		assert.Equal(t, once, Resolve(once.Style()))
	}
}

func TestParseColor(t *testing.T) {
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"00ff0080", color.NRGBA{0, 255, 0, 128}},
		{"transparent", color.NRGBA{}},
		{"", fallback},
		{"#12345", fallback},
		{"#gggggg", fallback},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseColor(tt.in, fallback), tt.in)
	}
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "#0a0b0c", FormatColor(color.NRGBA{10, 11, 12, 255}))
	assert.Equal(t, "#0a0b0c80", FormatColor(color.NRGBA{10, 11, 12, 128}))
}

func TestPresets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png-bytes"), 0o644))
	path := filepath.Join(dir, "presets.yaml")
	content := `
presets:
  brand:
    shape: rounded
    foregroundColor: "#0a3d62"
    logoFile: logo.png
    logoSizeFraction: 0.2
  plain:
    backgroundColor: "#fafafa"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "plain"}, presets.Names())
	assert.Equal(t, []byte("png-bytes"), presets["brand"].Logo)

	s, err := presets.Apply("brand", Style{ForegroundColor: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, ShapeRounded, s.Shape)
	assert.Equal(t, "#ff0000", s.ForegroundColor)
	assert.Equal(t, 0.2, s.LogoSizeFraction)

	unchanged, err := presets.Apply("", Style{Shape: ShapeCircle})
	require.NoError(t, err)
	assert.Equal(t, Style{Shape: ShapeCircle}, unchanged)

	_, err = presets.Apply("missing", Style{})
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoadPresets_Errors(t *testing.T) {
	_, err := LoadPresets("/nonexistent/presets.yaml")
	assert.Error(t, err)

	_, err = ParsePresets([]byte("presets:\n  a:\n    logoFile: missing.png\n"), t.TempDir())
	assert.Error(t, err)

	_, err = ParsePresets([]byte("presets: [unterminated"), "")
	assert.Error(t, err)
}
