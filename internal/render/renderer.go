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

// Package render turns payload strings into styled QR images.
package render

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// Renderer draws QR symbols within a configured pixel size range.
type Renderer struct {
	logger  *zap.Logger
	minSize int
	maxSize int
}

// NewRenderer creates a renderer accepting sizes in [minSize, maxSize].
func NewRenderer(logger *zap.Logger, minSize, maxSize int) *Renderer {
	return &Renderer{
		logger:  logger,
		minSize: minSize,
		maxSize: maxSize,
	}
}

// Render draws content at size x size pixels in the given format. Empty or
// oversized payloads fail with *payload.EncodingError; bad sizes, logos and
// codec failures fail with *RenderError. Identical inputs produce identical
// bytes.
func (r *Renderer) Render(ctx context.Context, content string, c style.Canonical, size int, format Format) (*Artifact, error) {
	r.logger.Debug("Starting QR render",
		zap.Int("payload_length", len(content)),
		zap.Int("size", size),
		zap.String("format", string(format)),
		zap.String("shape", string(c.Shape)),
		zap.Bool("logo", c.HasLogo()),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatPNG
	}
	if size < r.minSize || size > r.maxSize {
		r.logger.Warn("QR render failed: invalid size",
			zap.Int("size", size),
			zap.Int("min", r.minSize),
			zap.Int("max", r.maxSize),
		)
		return nil, sizeError("size %d must be between %d and %d", size, r.minSize, r.maxSize)
	}

	m, err := buildMatrix(content, c.Recovery)
	if err != nil {
		r.logger.Warn("QR render failed: payload rejected", zap.Error(err), zap.Int("payload_length", len(content)))
		return nil, err
	}
	if size < m.modules {
		return nil, sizeError("size %d is smaller than the %d modules of the symbol", size, m.modules)
	}

	var logo *image.NRGBA
	if c.HasLogo() {
		logo, err = loadLogo(c.Logo, logoSide(size, c.LogoSizeFraction))
		if err != nil {
			r.logger.Warn("QR render failed: logo rejected", zap.Error(err), zap.Int("logo_bytes", len(c.Logo)))
			return nil, &RenderError{Kind: KindLogo, Reason: "decode logo", Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatSVG:
		data, err = vectorSVG(m, c, size, logo)
	case FormatPNG, FormatJPEG:
		img := rasterize(m, c, size)
		if logo != nil {
			embossLogo(img, logo, c.Background, logoSide(size, c.LogoSizeFraction))
		}
		data, err = encodeRaster(img, format)
	default:
		return nil, &RenderError{Kind: KindCodec, Reason: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		r.logger.Error("Failed to encode QR image", zap.Error(err), zap.String("format", string(format)))
		return nil, &RenderError{Kind: KindCodec, Reason: "encode " + string(format), Err: err}
	}

	r.logger.Debug("QR render complete",
		zap.Int("output_size_bytes", len(data)),
		zap.Int("modules", m.modules),
		zap.String("image_dimensions", fmt.Sprintf("%dx%d", size, size)),
	)

	return &Artifact{Data: data, Format: format, Width: size, Height: size}, nil
}

// MinSize is the smallest accepted pixel size.
func (r *Renderer) MinSize() int { return r.minSize }

// MaxSize is the largest accepted pixel size.
func (r *Renderer) MaxSize() int { return r.maxSize }
