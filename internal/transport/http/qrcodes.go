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
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/store"
)

const defaultListLimit = 50

type saveRequest struct {
	renderRequest
	Name string `json:"name"`
	// Tracked codes encode the scan redirect URL instead of the payload.
	Tracked bool `json:"tracked"`
}

type recordResponse struct {
	*store.Record
	ScanURL string          `json:"scanUrl"`
	Form    json.RawMessage `json:"form,omitempty"`
}

func (h *Handler) recordView(rec *store.Record) recordResponse {
	resp := recordResponse{Record: rec, ScanURL: h.scanURL(rec.ID)}
	if len(rec.Form) > 0 {
		resp.Form = json.RawMessage(rec.Form)
	}
	return resp
}

func (h *Handler) scanURL(id string) string {
	return strings.TrimRight(h.settings.PublicBaseURL, "/") + "/r/" + id
}

// SaveQRCode handles POST /qrcodes. The code is rendered at download size,
// its image written to the object store and its record to the record store.
func (h *Handler) SaveQRCode(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	form, err := decodeForm(req.Category, req.Form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	size := req.Size
	if size <= 0 {
		size = h.settings.DownloadSize
	}
	opts := qr.Options{Size: size, Format: format, Style: req.Style, Preset: req.Preset}

	content, err := h.svc.Encode(form)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	id := uuid.NewString()
	encoded := content
	if req.Tracked {
		encoded = h.scanURL(id)
	}
	artifact, err := h.svc.Generate(r.Context(), []byte(encoded), opts)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	resolved, err := h.svc.ResolveStyle(req.Preset, req.Style)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	formJSON, err := json.Marshal(form)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	key := id + "." + artifact.Format.Extension()
	imageURL, err := h.objects.Put(r.Context(), key, artifact.Data, artifact.ContentType())
	if err != nil {
		h.logger.Error("Failed to store QR image", zap.String("key", key), zap.Error(err))
		h.writeServiceError(w, err)
		return
	}

	rec := &store.Record{
		ID:       id,
		Category: form.Category(),
		Name:     req.Name,
		Payload:  content,
		Form:     formJSON,
		Style:    resolved.Style(),
		ImageKey: key,
		ImageURL: imageURL,
		Format:   string(artifact.Format),
	}
	if err := h.records.Save(r.Context(), rec); err != nil {
		h.logger.Error("Failed to save QR record", zap.String("id", id), zap.Error(err))
		h.deleteImage(r.Context(), key)
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("QR code saved",
		zap.String("id", id),
		zap.String("category", rec.Category.String()),
		zap.Bool("tracked", req.Tracked),
		zap.Int("image_size", len(artifact.Data)),
	)
	writeJSON(w, http.StatusCreated, h.recordView(rec))
}

// GetQRCode handles GET /qrcodes/{id}.
func (h *Handler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.recordView(rec))
}

// ListQRCodes handles GET /qrcodes?limit=n.
func (h *Handler) ListQRCodes(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}
	recs, err := h.records.List(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]recordResponse, len(recs))
	for i, rec := range recs {
		out[i] = h.recordView(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// DeleteQRCode handles DELETE /qrcodes/{id}. The stored image is left in
// place.
func (h *Handler) DeleteQRCode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.records.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := h.records.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.deleteImage(r.Context(), rec.ImageKey)
	w.WriteHeader(http.StatusNoContent)
}

// deleteImage removes the image stored under key, logging any failure.
func (h *Handler) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.objects.Delete(context.WithoutCancel(ctx), key); err != nil {
		h.logger.Warn("Failed to delete QR image", zap.String("key", key), zap.Error(err))
	}
}

// GetImage handles GET /images/{key} for the in-memory object store.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.objects.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write image", zap.Error(err))
	}
}

// Scan handles GET /r/{id}. It counts the scan, then redirects to URL
// payloads and serves every other payload as text.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.records.IncrementScans(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("Failed to record scan", zap.String("id", id), zap.Error(err))
		}
		h.writeServiceError(w, err)
		return
	}
	h.logger.Debug("QR code scanned", zap.String("id", id), zap.Int64("scans", rec.Scans))

	if isRedirectable(rec.Payload) {
		http.Redirect(w, r, rec.Payload, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rec.Payload))
}

func isRedirectable(p string) bool {
	if strings.ContainsAny(p, "\r\n") {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

