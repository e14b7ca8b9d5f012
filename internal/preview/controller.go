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

// Package preview regenerates a QR preview while a form is being edited.
// Edits are debounced, renders run off the caller's goroutine, and results
// of superseded edits are dropped.
package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// Status is the controller state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusDebouncing Status = "debouncing"
	StatusRendering  Status = "rendering"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

const DefaultDebounce = 400 * time.Millisecond

// ErrClosed is returned for edits after Close.
var ErrClosed = errors.New("preview controller closed")

// Renderer produces the preview image.
type Renderer interface {
	Render(ctx context.Context, content string, c style.Canonical, size int, format render.Format) (*render.Artifact, error)
}

// Handles issues and revokes transient artifact handles.
type Handles interface {
	Acquire(a *render.Artifact) string
	Release(handle string)
}

// Config tunes a Controller. Zero values select defaults.
type Config struct {
	Debounce time.Duration
	Size     int
	Format   render.Format
	Encoding payload.Options
	Clock    Clock

	// IdleTimeout is how long a Manager keeps a session nobody touches.
	// Zero keeps sessions until they are closed.
	IdleTimeout time.Duration
}

// Output is what the preview surface reads.
type Output struct {
	Payload  string           `json:"payload"`
	Artifact *render.Artifact `json:"artifact"`
	Handle   string           `json:"handle,omitempty"`
	Status   Status           `json:"status"`
	Error    string           `json:"error,omitempty"`
}

// Controller owns the current artifact of one editing session.
type Controller struct {
	logger   *zap.Logger
	renderer Renderer
	handles  Handles
	cfg      Config
	category payload.Category

	mu         sync.Mutex
	form       payload.Form
	style      style.Style
	generation uint64
	status     Status
	payload    string
	artifact   *render.Artifact
	handle     string
	errMsg     string
	timer      Timer
	cancel     context.CancelFunc
	closed     bool
	changes    chan struct{}
	renders    sync.WaitGroup
}

// NewController starts an idle session for category with a default form and
// style.
func NewController(logger *zap.Logger, category payload.Category, renderer Renderer, handles Handles, cfg Config) (*Controller, error) {
	form, err := payload.NewForm(category)
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Size <= 0 {
		cfg.Size = 256
	}
	if cfg.Format == "" {
		cfg.Format = render.FormatPNG
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}

	return &Controller{
		logger:   logger.With(zap.String("category", category.String())),
		renderer: renderer,
		handles:  handles,
		cfg:      cfg,
		category: category,
		form:     form,
		status:   StatusIdle,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Category is fixed for the lifetime of the controller.
func (c *Controller) Category() payload.Category {
	return c.category
}

// Form returns the current form.
func (c *Controller) Form() payload.Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Style returns the current user style.
func (c *Controller) Style() style.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// SetField replaces a single form field.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	form, err := payload.WithField(c.form, field, value)
	if err != nil {
		return err
	}
	c.form = form
	c.mutateLocked()
	return nil
}

// SetForm replaces the whole form. The form must belong to the controller's
// category.
func (c *Controller) SetForm(form payload.Form) error {
	if form == nil || form.Category() != c.category {
		return fmt.Errorf("form does not belong to category %s", c.category)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.form = form
	c.mutateLocked()
	return nil
}

// SetStyle replaces the user style.
func (c *Controller) SetStyle(s style.Style) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.style = s
	c.mutateLocked()
	return nil
}

// Snapshot returns the latest published output.
func (c *Controller) Snapshot() Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Output{
		Payload:  c.payload,
		Artifact: c.artifact,
		Handle:   c.handle,
		Status:   c.status,
		Error:    c.errMsg,
	}
}

// Changes signals state changes. Signals coalesce; read Snapshot after each.
// The channel is closed by Close.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Close stops the timer, cancels any render, releases the artifact handle and
// waits for in-flight renders to return.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	c.stopLocked()
	c.withholdLocked()
	close(c.changes)
	c.mu.Unlock()

	c.renders.Wait()
	c.logger.Debug("Preview session closed")
}

// mutateLocked starts a new generation after an edit.
func (c *Controller) mutateLocked() {
	c.generation++
	c.stopLocked()

	if !payload.IsComplete(c.form) {
		c.withholdLocked()
		c.notifyLocked()
		return
	}

	gen := c.generation
	c.status = StatusDebouncing
	c.timer = c.cfg.Clock.AfterFunc(c.cfg.Debounce, func() { c.fire(gen) })
	c.notifyLocked()
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// withholdLocked drops the preview and returns to idle.
func (c *Controller) withholdLocked() {
	c.handles.Release(c.handle)
	c.handle = ""
	c.artifact = nil
	c.payload = ""
	c.errMsg = ""
	c.status = StatusIdle
}

func (c *Controller) notifyLocked() {
	if c.closed {
		return
	}
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// fire runs when the debounce window for gen elapses.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	c.timer = nil

	content := previewPayload(c.form, c.cfg.Encoding)
	if content == "" {
		c.withholdLocked()
		c.notifyLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.status = StatusRendering
	c.notifyLocked()

	c.renders.Add(1)
	go c.run(ctx, cancel, gen, content, style.Resolve(c.style))
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, content string, canonical style.Canonical) {
	defer c.renders.Done()
	defer cancel()

	a, err := c.renderer.Render(ctx, content, canonical, c.cfg.Size, c.cfg.Format)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		c.logger.Debug("Discarding stale preview render", zap.Uint64("generation", gen))
		return
	}
	c.cancel = nil

	if err != nil {
		c.logger.Warn("Preview render failed", zap.Error(err), zap.Uint64("generation", gen))
		c.status = StatusError
		c.errMsg = err.Error()
		c.notifyLocked()
		return
	}

	c.handles.Release(c.handle)
	c.handle = c.handles.Acquire(a)
	c.artifact = a
	c.payload = content
	c.errMsg = ""
	c.status = StatusReady
	c.notifyLocked()
}

// previewPayload is the payload shown for form. A bulk list previews its
// first entry since every line becomes its own symbol.
func previewPayload(form payload.Form, opts payload.Options) string {
	if bulk, ok := form.(payload.BulkForm); ok {
		lines := payload.BulkLines(bulk.List)
		if len(lines) == 0 {
			return ""
		}
		return lines[0]
	}
	return payload.EncodeWith(form, opts)
}
