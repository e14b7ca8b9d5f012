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

// Package qr ties payload encoding, style resolution and rendering together
// for the outer service surfaces.
package qr

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// ErrTooManyItems is returned when a bulk list exceeds the configured limit.
var ErrTooManyItems = errors.New("too many bulk items")

// Renderer draws a payload.
type Renderer interface {
	Render(ctx context.Context, content string, c style.Canonical, size int, format render.Format) (*render.Artifact, error)
}

// Service defines the QR generation use cases.
type Service interface {
	// Generate renders raw data as a QR code.
	Generate(ctx context.Context, data []byte, opts Options) (*render.Artifact, error)
	// Encode returns the payload for form or an *payload.EncodingError.
	Encode(form payload.Form) (string, error)
	// Build encodes form and renders the payload.
	Build(ctx context.Context, form payload.Form, opts Options) (*Result, error)
	// Bulk renders every line of a bulk list independently.
	Bulk(ctx context.Context, list string, opts Options) ([]BulkItem, error)
	// ResolveStyle applies a named preset and resolves the result.
	ResolveStyle(preset string, s style.Style) (style.Canonical, error)
}

// Options select how a payload is drawn. Zero values select defaults.
type Options struct {
	Size   int
	Format render.Format
	Style  style.Style
	Preset string
}

// Result is an encoded and rendered form.
type Result struct {
	Payload  string
	Style    style.Canonical
	Artifact *render.Artifact
}

// BulkItem is the outcome for one bulk line. Err is set when that line
// failed; other lines are unaffected.
type BulkItem struct {
	Index    int
	Payload  string
	Artifact *render.Artifact
	Err      error
}

// Settings configure a Service.
type Settings struct {
	DefaultSize  int
	BulkWorkers  int
	BulkMaxItems int
	Encoding     payload.Options
	Presets      style.Presets
}

type service struct {
	logger   *zap.Logger
	renderer Renderer
	settings Settings
}

// NewService creates a new QR generation service instance.
func NewService(logger *zap.Logger, renderer Renderer, settings Settings) Service {
	if settings.DefaultSize <= 0 {
		settings.DefaultSize = 256
	}
	if settings.BulkWorkers <= 0 {
		settings.BulkWorkers = 1
	}
	return &service{
		logger:   logger,
		renderer: renderer,
		settings: settings,
	}
}

// Generate creates a QR code image from the provided data.
func (s *service) Generate(ctx context.Context, data []byte, opts Options) (*render.Artifact, error) {
	s.logger.Debug("Starting QR code generation",
		zap.Int("data_length", len(data)),
		zap.Int("size", opts.Size),
	)

	if len(data) == 0 {
		s.logger.Warn("QR code generation failed: empty data provided")
		return nil, &payload.EncodingError{Reason: "data cannot be empty"}
	}

	c, err := s.ResolveStyle(opts.Preset, opts.Style)
	if err != nil {
		return nil, err
	}

	a, err := s.renderer.Render(ctx, string(data), c, s.size(opts), opts.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return a, nil
}

// Encode explains the payload of form with the configured encoding options.
func (s *service) Encode(form payload.Form) (string, error) {
	return payload.Explain(form, s.settings.Encoding)
}

// Build encodes form and renders its payload.
func (s *service) Build(ctx context.Context, form payload.Form, opts Options) (*Result, error) {
	content, err := s.Encode(form)
	if err != nil {
		s.logger.Debug("Form did not produce a payload", zap.Error(err))
		return nil, err
	}

	c, err := s.ResolveStyle(opts.Preset, opts.Style)
	if err != nil {
		return nil, err
	}

	a, err := s.renderer.Render(ctx, content, c, s.size(opts), opts.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s QR code: %w", form.Category(), err)
	}
	return &Result{Payload: content, Style: c, Artifact: a}, nil
}

// Bulk fans each normalized line out to the renderer, at most BulkWorkers at
// a time. Items keep the order of the list.
func (s *service) Bulk(ctx context.Context, list string, opts Options) ([]BulkItem, error) {
	lines := payload.BulkLines(list)
	if len(lines) == 0 {
		return nil, &payload.EncodingError{Category: payload.CategoryBulk, Reason: "list has no entries", Err: payload.ErrIncomplete}
	}
	if s.settings.BulkMaxItems > 0 && len(lines) > s.settings.BulkMaxItems {
		return nil, fmt.Errorf("%w: %d lines, limit %d", ErrTooManyItems, len(lines), s.settings.BulkMaxItems)
	}

	c, err := s.ResolveStyle(opts.Preset, opts.Style)
	if err != nil {
		return nil, err
	}
	size := s.size(opts)

	s.logger.Info("Starting bulk QR generation",
		zap.Int("items", len(lines)),
		zap.Int("workers", s.settings.BulkWorkers),
		zap.Int("size", size),
	)

	items := make([]BulkItem, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.BulkWorkers)
	for i, line := range lines {
		g.Go(func() error {
			a, err := s.renderer.Render(gctx, line, c, size, opts.Format)
			items[i] = BulkItem{Index: i, Payload: line, Artifact: a, Err: err}
			if err != nil {
				s.logger.Warn("Bulk item failed", zap.Int("index", i), zap.Error(err))
			}
			// Cancellation of the whole batch is the only fatal error.
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bulk generation aborted: %w", err)
	}

	return items, nil
}

// ResolveStyle merges s over the named preset and resolves it.
func (s *service) ResolveStyle(preset string, st style.Style) (style.Canonical, error) {
	merged, err := s.settings.Presets.Apply(preset, st)
	if err != nil {
		return style.Canonical{}, err
	}
	return style.Resolve(merged), nil
}

func (s *service) size(opts Options) int {
	if opts.Size > 0 {
		return opts.Size
	}
	return s.settings.DefaultSize
}
