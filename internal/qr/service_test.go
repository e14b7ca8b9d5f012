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

package qr

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

func newTestService(t *testing.T, settings Settings) Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewService(logger, render.NewRenderer(logger, 64, 1024), settings)
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, Settings{DefaultSize: 200})

	a, err := svc.Generate(context.Background(), []byte("https://example.com"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, a.Width)
	assert.Equal(t, render.FormatPNG, a.Format)

	a, err = svc.Generate(context.Background(), []byte("hello"), Options{Size: 300, Format: render.FormatSVG})
	require.NoError(t, err)
	assert.Equal(t, 300, a.Width)
	assert.Equal(t, render.FormatSVG, a.Format)

	var encErr *payload.EncodingError
	_, err = svc.Generate(context.Background(), nil, Options{})
	assert.ErrorAs(t, err, &encErr)

	var renderErr *render.RenderError
	_, err = svc.Generate(context.Background(), []byte("hello"), Options{Size: 5000})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, render.KindSize, renderErr.Kind)
}

func TestBuild(t *testing.T) {
	svc := newTestService(t, Settings{})

	res, err := svc.Build(context.Background(), payload.WiFiForm{SSID: "Home", Password: "secret", Encryption: "WPA"}, Options{Size: 128})
	require.NoError(t, err)
	assert.Equal(t, "WIFI:T:WPA;S:Home;P:secret;;", res.Payload)
	assert.Equal(t, 128, res.Artifact.Width)
	assert.Equal(t, style.ModuleSquare, res.Style.Module)

	_, err = svc.Build(context.Background(), payload.EventForm{Start: "2025-05-01T10:00"}, Options{})
	assert.ErrorIs(t, err, payload.ErrIncomplete)
}

func TestBuild_ContactFormatOption(t *testing.T) {
	svc := newTestService(t, Settings{Encoding: payload.Options{ContactFormat: payload.ContactMECARD}})

	p, err := svc.Encode(payload.ContactForm{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "MECARD:"), p)
}

func TestResolveStyle_Presets(t *testing.T) {
	svc := newTestService(t, Settings{Presets: style.Presets{
		"brand": {Shape: style.ShapeCircle, ForegroundColor: "#0a3d62"},
	}})

	c, err := svc.ResolveStyle("brand", style.Style{BackgroundColor: "#eeeeee"})
	require.NoError(t, err)
	assert.Equal(t, style.ModuleDot, c.Module)
	assert.Equal(t, "#0a3d62", style.FormatColor(c.Foreground))
	assert.Equal(t, "#eeeeee", style.FormatColor(c.Background))

	_, err = svc.ResolveStyle("missing", style.Style{})
	assert.ErrorIs(t, err, style.ErrUnknownPreset)

	_, err = svc.Build(context.Background(), payload.LinkForm{URL: "example.com"}, Options{Preset: "missing"})
	assert.ErrorIs(t, err, style.ErrUnknownPreset)
}

type countingRenderer struct {
	inner   Renderer
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (r *countingRenderer) Render(ctx context.Context, content string, c style.Canonical, size int, format render.Format) (*render.Artifact, error) {
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		m := r.maxSeen.Load()
		if n <= m || r.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	return r.inner.Render(ctx, content, c, size, format)
}

func TestBulk(t *testing.T) {
	logger := zaptest.NewLogger(t)
	counting := &countingRenderer{inner: render.NewRenderer(logger, 64, 1024)}
	svc := NewService(logger, counting, Settings{DefaultSize: 128, BulkWorkers: 2, BulkMaxItems: 10})

	list := "https://a.com\n\n  tel:+15550100  \n" + strings.Repeat("x", 5000) + "\nWIFI:T:WPA;S:Home;P:secret;;\n"
	items, err := svc.Bulk(context.Background(), list, Options{})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "https://a.com", items[0].Payload)
	assert.Equal(t, "tel:+15550100", items[1].Payload)
	for _, i := range []int{0, 1, 3} {
		assert.Equal(t, i, items[i].Index)
		assert.NoError(t, items[i].Err)
		require.NotNil(t, items[i].Artifact)
		assert.Equal(t, 128, items[i].Artifact.Width)
	}

	var encErr *payload.EncodingError
	assert.ErrorAs(t, items[2].Err, &encErr)
	assert.Nil(t, items[2].Artifact)
	assert.LessOrEqual(t, counting.maxSeen.Load(), int32(2))
}

func TestBulk_Limits(t *testing.T) {
	svc := newTestService(t, Settings{BulkMaxItems: 2})

	_, err := svc.Bulk(context.Background(), "a\nb\nc", Options{})
	assert.ErrorIs(t, err, ErrTooManyItems)

	_, err = svc.Bulk(context.Background(), " \n\n", Options{})
	assert.ErrorIs(t, err, payload.ErrIncomplete)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Bulk(ctx, "a\nb", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_DoesNotLogContent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	svc := NewService(logger, render.NewRenderer(logger, 64, 1024), Settings{})

	secret := "WIFI:T:WPA;S:Home;P:hunter2;;"
	_, err := svc.Generate(context.Background(), []byte(secret), Options{Size: 128})
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), []byte(secret), Options{Size: 5000})
	require.Error(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, "hunter2")
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(value), "hunter2", key)
		}
	}
}
