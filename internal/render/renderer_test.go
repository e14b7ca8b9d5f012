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
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(zaptest.NewLogger(t), 1, 4096)
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRender_ExactSize(t *testing.T) {
	r := newTestRenderer(t)
	for _, size := range []int{64, 257, 300, 1024} {
		a, err := r.Render(context.Background(), "https://example.com", style.Resolve(style.Style{}), size, FormatPNG)
		require.NoError(t, err)
		assert.Equal(t, size, a.Width)
		assert.Equal(t, size, a.Height)
		assert.Equal(t, "image/png", a.ContentType())

		img := decodePNG(t, a.Data)
		assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds())
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	logo := solidPNG(t, 12, 8, red)
	styles := []style.Style{
		{},
		{Shape: style.ShapeCircle, ForegroundColor: "#1a2b3c"},
		{Shape: style.ShapeRounded, Logo: logo},
	}
	for _, s := range styles {
		for _, f := range []Format{FormatPNG, FormatSVG, FormatJPEG} {
			c := style.Resolve(s)
			first, err := r.Render(context.Background(), "WIFI:T:WPA;S:Home;P:secret;;", c, 300, f)
			require.NoError(t, err)
			second, err := r.Render(context.Background(), "WIFI:T:WPA;S:Home;P:secret;;", c, 300, f)
			require.NoError(t, err)
			assert.Equal(t, first.Data, second.Data, "%s %s", s.Shape, f)
		}
	}
}

func TestRender_NoAntiAliasing(t *testing.T) {
	r := newTestRenderer(t)
	for _, shape := range []style.Shape{style.ShapeSquare, style.ShapeCircle, style.ShapeRounded} {
		a, err := r.Render(context.Background(), "https://example.com/a", style.Resolve(style.Style{Shape: shape}), 333, FormatPNG)
		require.NoError(t, err)

		img := decodePNG(t, a.Data)
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p := pixel(img, x, y)
				if p != black && p != white {
					t.Fatalf("%s: pixel (%d,%d) is %v", shape, x, y, p)
				}
			}
		}
	}
}

func TestRender_FinderLayout(t *testing.T) {
	r := newTestRenderer(t)
	// "hi" is a version 1 symbol: 21 modules plus the quiet zone.
	a, err := r.Render(context.Background(), "hi", style.Resolve(style.Style{}), 290, FormatPNG)
	require.NoError(t, err)
	img := decodePNG(t, a.Data)

	assert.Equal(t, white, pixel(img, 5, 5), "quiet zone")
	assert.Equal(t, black, pixel(img, 45, 45), "finder outer ring")
	assert.Equal(t, white, pixel(img, 55, 55), "finder separator ring")
	assert.Equal(t, black, pixel(img, 75, 75), "finder eye")
	assert.Equal(t, black, pixel(img, 245, 45), "top-right finder")
	assert.Equal(t, black, pixel(img, 45, 245), "bottom-left finder")
}

func TestRender_Colors(t *testing.T) {
	r := newTestRenderer(t)
	c := style.Resolve(style.Style{ForegroundColor: "#ff0000", BackgroundColor: "#00ff00"})
	a, err := r.Render(context.Background(), "hi", c, 290, FormatPNG)
	require.NoError(t, err)
	img := decodePNG(t, a.Data)

	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, pixel(img, 5, 5))
	assert.Equal(t, red, pixel(img, 45, 45))
}

func TestRender_LogoPlate(t *testing.T) {
	r := newTestRenderer(t)
	c := style.Resolve(style.Style{Logo: solidPNG(t, 10, 10, red), LogoSizeFraction: 0.25})
	require.Equal(t, style.RecoveryHigh, c.Recovery)

	a, err := r.Render(context.Background(), "https://example.com", c, 400, FormatPNG)
	require.NoError(t, err)
	img := decodePNG(t, a.Data)

	// side 100, margin 10: plate spans 140..260, logo 150..250.
	centre := pixel(img, 200, 200)
	assert.GreaterOrEqual(t, centre.R, uint8(250))
	assert.LessOrEqual(t, centre.G, uint8(5))
	for _, p := range [][2]int{{142, 142}, {145, 200}, {257, 257}, {200, 255}} {
		assert.Equal(t, white, pixel(img, p[0], p[1]), "plate at %v", p)
	}
}

func TestRender_LogoPlateOpaqueOnTransparentBackground(t *testing.T) {
	r := newTestRenderer(t)
	c := style.Resolve(style.Style{BackgroundColor: "transparent", Logo: solidPNG(t, 10, 10, red)})

	a, err := r.Render(context.Background(), "https://example.com", c, 400, FormatPNG)
	require.NoError(t, err)
	img := decodePNG(t, a.Data)

	assert.Equal(t, uint8(0), pixel(img, 2, 2).A)
	assert.Equal(t, white, pixel(img, 145, 145))
}

func TestRender_SVGLogo(t *testing.T) {
	r := newTestRenderer(t)
	svgLogo := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10"><rect width="20" height="10" fill="#ff0000"/></svg>`)
	c := style.Resolve(style.Style{Logo: svgLogo})

	a, err := r.Render(context.Background(), "https://example.com", c, 400, FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, 400, decodePNG(t, a.Data).Bounds().Dx())
}

func TestRender_SVG(t *testing.T) {
	r := newTestRenderer(t)

	a, err := r.Render(context.Background(), "https://example.com", style.Resolve(style.Style{}), 256, FormatSVG)
	require.NoError(t, err)
	out := string(a.Data)
	assert.Equal(t, "image/svg+xml", a.ContentType())
	assert.True(t, strings.HasPrefix(out, `<?xml`))
	assert.Contains(t, out, `width="256" height="256"`)
	assert.Contains(t, out, `shape-rendering="crispEdges"`)
	assert.True(t, strings.HasSuffix(out, `</svg>`))
	assert.NotContains(t, out, "<image")

	a, err = r.Render(context.Background(), "https://example.com", style.Resolve(style.Style{Shape: style.ShapeCircle}), 256, FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(a.Data), "<circle")

	c := style.Resolve(style.Style{Shape: style.ShapeRounded, BackgroundColor: "#ffffff80", Logo: solidPNG(t, 4, 4, red)})
	a, err = r.Render(context.Background(), "https://example.com", c, 256, FormatSVG)
	require.NoError(t, err)
	out = string(a.Data)
	assert.Contains(t, out, `href="data:image/png;base64,`)
	assert.Contains(t, out, `fill-opacity=`)
}

func TestRender_JPEG(t *testing.T) {
	r := newTestRenderer(t)
	a, err := r.Render(context.Background(), "tel:+15550100", style.Resolve(style.Style{BackgroundColor: "transparent"}), 200, FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", a.ContentType())

	img, err := jpeg.Decode(bytes.NewReader(a.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
}

func TestRender_EncodingErrors(t *testing.T) {
	r := newTestRenderer(t)
	var encErr *payload.EncodingError

	_, err := r.Render(context.Background(), "", style.Resolve(style.Style{}), 256, FormatPNG)
	require.ErrorAs(t, err, &encErr)

	_, err = r.Render(context.Background(), strings.Repeat("a", 5000), style.Resolve(style.Style{}), 256, FormatPNG)
	require.ErrorAs(t, err, &encErr)
}

func TestRender_RenderErrors(t *testing.T) {
	ctx := context.Background()
	var renderErr *RenderError

	bounded := NewRenderer(zaptest.NewLogger(t), 64, 512)
	for _, size := range []int{0, 63, 513} {
		_, err := bounded.Render(ctx, "hi", style.Resolve(style.Style{}), size, FormatPNG)
		require.ErrorAs(t, err, &renderErr, "size %d", size)
		assert.Equal(t, KindSize, renderErr.Kind)
	}

	r := newTestRenderer(t)
	_, err := r.Render(ctx, "hi", style.Resolve(style.Style{}), 20, FormatPNG)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, KindSize, renderErr.Kind)

	_, err = r.Render(ctx, "hi", style.Resolve(style.Style{Logo: []byte("not an image")}), 256, FormatPNG)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, KindLogo, renderErr.Kind)

	_, err = r.Render(ctx, "hi", style.Resolve(style.Style{}), 256, Format("bmp"))
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, KindCodec, renderErr.Kind)
}

// inflatedPNG returns a 1x1 PNG whose IHDR claims w x h pixels.
func inflatedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := solidPNG(t, 1, 1, red)
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestRender_RejectsOversizedLogoHeader(t *testing.T) {
	logo := inflatedPNG(t, 60000, 60000)
	require.Less(t, len(logo), 128)

	cfg, err := png.DecodeConfig(bytes.NewReader(logo))
	require.NoError(t, err)
	assert.Equal(t, 60000, cfg.Width)

	_, err = newTestRenderer(t).Render(context.Background(), "hi", style.Resolve(style.Style{Logo: logo}), 256, FormatPNG)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, KindLogo, renderErr.Kind)
	assert.Contains(t, err.Error(), "60000x60000")
}

func TestRender_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRenderer(t).Render(ctx, "hi", style.Resolve(style.Style{}), 256, FormatPNG)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatPNG, "PNG": FormatPNG, "svg": FormatSVG, "jpg": FormatJPEG, "jpeg": FormatJPEG}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)

	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "svg", FormatSVG.Extension())
}
