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

package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/blob"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/objectstore"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/preview"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/store"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// Artifacts resolves transient preview handles.
type Artifacts interface {
	Get(handle string) (*render.Artifact, error)
}

// Settings carry the request limits and URLs the handlers need.
type Settings struct {
	MaxBodySize   int64
	DownloadSize  int
	PublicBaseURL string
}

// Handler serves the QR studio API.
type Handler struct {
	svc       qr.Service
	previews  *preview.Manager
	artifacts Artifacts
	records   store.Store
	objects   objectstore.Store
	logger    *zap.Logger
	settings  Settings
}

// NewHandler creates a new HTTP handler for the QR studio API.
func NewHandler(
	logger *zap.Logger,
	svc qr.Service,
	previews *preview.Manager,
	artifacts Artifacts,
	records store.Store,
	objects objectstore.Store,
	settings Settings,
) *Handler {
	return &Handler{
		svc:       svc,
		previews:  previews,
		artifacts: artifacts,
		records:   records,
		objects:   objects,
		logger:    logger,
		settings:  settings,
	}
}

// NewRouter registers every route on a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLoggingMiddleware(h.logger))

	r.With(MethodMiddleware(http.MethodPost)).Handle("/generate", http.HandlerFunc(h.Generate))
	r.Get("/health", h.HealthCheck)

	r.Post("/encode", h.Encode)
	r.Post("/render", h.Render)
	r.Post("/bulk", h.Bulk)

	r.Route("/previews", func(r chi.Router) {
		r.Post("/", h.OpenPreview)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetPreview)
			r.Delete("/", h.ClosePreview)
			r.Patch("/form", h.SetPreviewField)
			r.Put("/form", h.SetPreviewForm)
			r.Put("/style", h.SetPreviewStyle)
			r.Get("/artifacts/{handle}", h.GetPreviewArtifact)
		})
	})

	r.Route("/qrcodes", func(r chi.Router) {
		r.Post("/", h.SaveQRCode)
		r.Get("/", h.ListQRCodes)
		r.Get("/{id}", h.GetQRCode)
		r.Delete("/{id}", h.DeleteQRCode)
	})
	r.Get("/images/{key}", h.GetImage)
	r.Get("/r/{id}", h.Scan)

	return r
}

// Generate handles POST /generate?size=&format=&shape=&fg=&bg=&preset=
// requests. The raw body is the payload.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if len(body) == 0 {
		h.logger.Warn("Empty request body received", zap.String("remote_addr", r.RemoteAddr))
		writeError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	q := r.URL.Query()
	size := 0
	if sizeStr := q.Get("size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil {
			h.logger.Warn("Invalid size parameter", zap.String("size_str", sizeStr), zap.Error(err))
			writeError(w, http.StatusBadRequest, "Invalid size parameter: must be an integer")
			return
		}
		size = parsed
	}
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := qr.Options{
		Size:   size,
		Format: format,
		Preset: q.Get("preset"),
		Style: style.Style{
			Shape:           style.Shape(q.Get("shape")),
			ForegroundColor: q.Get("fg"),
			BackgroundColor: q.Get("bg"),
		},
	}

	a, err := h.svc.Generate(r.Context(), body, opts)
	if err != nil {
		h.logger.Error("failed to generate QR code",
			zap.Error(err),
			zap.Int("data_length", len(body)),
			zap.Int("size", size),
			zap.String("remote_addr", r.RemoteAddr),
		)
		h.writeServiceError(w, err)
		return
	}

	h.writeArtifact(w, a)
	h.logger.Info("QR code request completed successfully",
		zap.Int("data_length", len(body)),
		zap.Int("size", a.Width),
		zap.String("format", string(a.Format)),
		zap.Int("output_size", len(a.Data)),
	)
}

// HealthCheck handles GET /health requests for liveness/readiness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"previews": h.previews.Len(),
	})
}

// readBody reads at most MaxBodySize bytes. It writes the error response
// itself and reports false on failure.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.ContentLength > h.settings.MaxBodySize {
		h.logger.Warn("Request body too large (ContentLength check)",
			zap.Int64("content_length", r.ContentLength),
			zap.Int64("max_allowed", h.settings.MaxBodySize),
			zap.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.settings.MaxBodySize)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Request body too large",
				zap.Int64("max_allowed", h.settings.MaxBodySize),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		h.logger.Error("failed to read request body", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		writeError(w, http.StatusInternalServerError, "Failed to read request body")
		return nil, false
	}
	return buf.Bytes(), true
}

// decodeJSON reads the body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := h.readBody(w, r)
	if !ok {
		return false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.logger.Debug("Malformed JSON body", zap.Error(err))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Malformed JSON body: %v", err))
		return false
	}
	return true
}

func (h *Handler) writeArtifact(w http.ResponseWriter, a *render.Artifact) {
	w.Header().Set("Content-Type", a.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		h.logger.Error("failed to write response", zap.Error(err), zap.Int("output_size", len(a.Data)))
	}
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status, resp := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
		resp.Error = "Internal server error"
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var encErr *payload.EncodingError
	if errors.As(err, &encErr) {
		resp.Category = encErr.Category.String()
		return http.StatusUnprocessableEntity, resp
	}
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		resp.Kind = string(renderErr.Kind)
		switch renderErr.Kind {
		case render.KindSize:
			return http.StatusBadRequest, resp
		case render.KindLogo:
			return http.StatusUnprocessableEntity, resp
		default:
			return http.StatusInternalServerError, resp
		}
	}

	switch {
	case errors.Is(err, style.ErrUnknownPreset),
		errors.Is(err, payload.ErrUnknownField),
		errors.Is(err, qr.ErrTooManyItems):
		return http.StatusBadRequest, resp
	case errors.Is(err, preview.ErrSessionNotFound),
		errors.Is(err, blob.ErrNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, objectstore.ErrNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, preview.ErrTooManySessions):
		return http.StatusTooManyRequests, resp
	case errors.Is(err, preview.ErrClosed):
		return http.StatusGone, resp
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, resp
	}
	return http.StatusInternalServerError, resp
}
