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
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/preview"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

const (
	maxPreviewWait = 30 * time.Second
	previewRecheck = 50 * time.Millisecond
)

type openPreviewRequest struct {
	Category string `json:"category"`
}

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type previewResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Form        json.RawMessage `json:"form"`
	Style       style.Style     `json:"style"`
	HasLogo     bool            `json:"hasLogo"`
	Status      preview.Status  `json:"status"`
	Payload     string          `json:"payload"`
	Error       string          `json:"error,omitempty"`
	Handle      string          `json:"handle,omitempty"`
	ArtifactURL string          `json:"artifactUrl,omitempty"`
	Format      string          `json:"format,omitempty"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
}

func previewView(id string, ctrl *preview.Controller) previewResponse {
	st := ctrl.Style()
	snap := ctrl.Snapshot()
	form, _ := json.Marshal(ctrl.Form())
	resp := previewResponse{
		ID:       id,
		Category: ctrl.Category().String(),
		Form:     form,
		HasLogo:  len(st.Logo) > 0,
		Status:   snap.Status,
		Payload:  snap.Payload,
		Error:    snap.Error,
		Handle:   snap.Handle,
	}
	st.Logo = nil
	resp.Style = st
	if snap.Handle != "" {
		resp.ArtifactURL = "/previews/" + id + "/artifacts/" + snap.Handle
	}
	if a := snap.Artifact; a != nil {
		resp.Format = string(a.Format)
		resp.Width = a.Width
		resp.Height = a.Height
	}
	return resp
}

// session resolves the {id} URL parameter.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *preview.Controller, bool) {
	id := chi.URLParam(r, "id")
	ctrl, err := h.previews.Get(id)
	if err != nil {
		h.writeServiceError(w, err)
		return "", nil, false
	}
	return id, ctrl, true
}

// OpenPreview handles POST /previews.
func (h *Handler) OpenPreview(w http.ResponseWriter, r *http.Request) {
	var req openPreviewRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	c, err := payload.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, ctrl, err := h.previews.Open(c)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.logger.Info("Preview session opened", zap.String("session_id", id), zap.String("category", c.String()))
	writeJSON(w, http.StatusCreated, previewView(id, ctrl))
}

// GetPreview handles GET /previews/{id}. With ?wait=<duration> it blocks
// until the preview settles (not debouncing or rendering), or with
// ?since=<status> until the status differs from the given one. The wait ends
// early when the duration elapses or the session closes.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if waitStr := r.URL.Query().Get("wait"); waitStr != "" {
		wait, err := time.ParseDuration(waitStr)
		if err != nil || wait < 0 {
			writeError(w, http.StatusBadRequest, "Invalid wait parameter")
			return
		}
		since := preview.Status(r.URL.Query().Get("since"))
		timer := time.NewTimer(min(wait, maxPreviewWait))
		defer timer.Stop()
		recheck := time.NewTicker(previewRecheck)
		defer recheck.Stop()
	poll:
		for !previewSettled(ctrl.Snapshot().Status, since) {
			select {
			case _, open := <-ctrl.Changes():
				if !open {
					break poll
				}
			case <-recheck.C:
			case <-timer.C:
				break poll
			case <-r.Context().Done():
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, previewView(id, ctrl))
}

func previewSettled(status, since preview.Status) bool {
	if since != "" {
		return status != since
	}
	return status != preview.StatusDebouncing && status != preview.StatusRendering
}

// ClosePreview handles DELETE /previews/{id}.
func (h *Handler) ClosePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.previews.Close(id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPreviewField handles PATCH /previews/{id}/form.
func (h *Handler) SetPreviewField(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := ctrl.SetField(req.Field, req.Value); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, previewView(id, ctrl))
}

// SetPreviewForm handles PUT /previews/{id}/form with the category's form
// object as body.
func (h *Handler) SetPreviewForm(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if !h.decodeJSON(w, r, &raw) {
		return
	}
	form, err := payload.DecodeForm(ctrl.Category(), raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctrl.SetForm(form); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, previewView(id, ctrl))
}

// SetPreviewStyle handles PUT /previews/{id}/style[?preset=name].
func (h *Handler) SetPreviewStyle(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	var st style.Style
	if !h.decodeJSON(w, r, &st) {
		return
	}
	if preset := r.URL.Query().Get("preset"); preset != "" {
		c, err := h.svc.ResolveStyle(preset, st)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		st = c.Style()
	}
	if err := ctrl.SetStyle(st); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, previewView(id, ctrl))
}

// GetPreviewArtifact handles GET /previews/{id}/artifacts/{handle}. Only the
// session's current handle is served.
func (h *Handler) GetPreviewArtifact(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	handle := chi.URLParam(r, "handle")
	if handle != ctrl.Snapshot().Handle {
		writeError(w, http.StatusNotFound, "artifact handle not found")
		return
	}
	a, err := h.artifacts.Get(handle)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	h.writeArtifact(w, a)
}
