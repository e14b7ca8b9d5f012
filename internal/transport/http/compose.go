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
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

type encodeRequest struct {
	Category string          `json:"category"`
	Form     json.RawMessage `json:"form"`
	Options  struct {
		ContactFormat string `json:"contactFormat"`
	} `json:"options"`
}

type encodeResponse struct {
	Category string `json:"category"`
	Payload  string `json:"payload"`
	Complete bool   `json:"complete"`
	Reason   string `json:"reason,omitempty"`
}

type renderRequest struct {
	Category string          `json:"category"`
	Form     json.RawMessage `json:"form"`
	Style    style.Style     `json:"style"`
	Preset   string          `json:"preset"`
	Size     int             `json:"size"`
	Format   string          `json:"format"`
}

type bulkRequest struct {
	List   string      `json:"list"`
	Style  style.Style `json:"style"`
	Preset string      `json:"preset"`
	Size   int         `json:"size"`
	Format string      `json:"format"`
}

type bulkItemResponse struct {
	Index       int    `json:"index"`
	Payload     string `json:"payload"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Data        []byte `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
}

type bulkResponse struct {
	Items  []bulkItemResponse `json:"items"`
	Failed int                `json:"failed"`
}

// decodeForm parses the category name and its raw form.
func decodeForm(category string, raw json.RawMessage) (payload.Form, error) {
	c, err := payload.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return payload.DecodeForm(c, raw)
}

// Encode handles POST /encode. Incomplete forms are reported with
// complete=false rather than as errors.
func (h *Handler) Encode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	form, err := decodeForm(req.Category, req.Form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := payload.Options{ContactFormat: payload.ParseContactFormat(req.Options.ContactFormat)}
	resp := encodeResponse{Category: form.Category().String()}
	p, err := payload.Explain(form, opts)
	if err != nil {
		var encErr *payload.EncodingError
		if !errors.As(err, &encErr) {
			h.writeServiceError(w, err)
			return
		}
		resp.Reason = encErr.Reason
	}
	resp.Payload = p
	resp.Complete = err == nil
	writeJSON(w, http.StatusOK, resp)
}

// Render handles POST /render and returns the image bytes.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
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

	res, err := h.svc.Build(r.Context(), form, qr.Options{
		Size:   req.Size,
		Format: format,
		Style:  req.Style,
		Preset: req.Preset,
	})
	if err != nil {
		h.logger.Debug("Render request failed", zap.String("category", req.Category), zap.Error(err))
		h.writeServiceError(w, err)
		return
	}
	h.writeArtifact(w, res.Artifact)
}

// Bulk handles POST /bulk. Each line is rendered independently and failed
// lines carry their error.
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.svc.Bulk(r.Context(), req.List, qr.Options{
		Size:   req.Size,
		Format: format,
		Style:  req.Style,
		Preset: req.Preset,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := bulkResponse{Items: make([]bulkItemResponse, len(items))}
	for i, item := range items {
		out := bulkItemResponse{Index: item.Index, Payload: item.Payload}
		if item.Err != nil {
			out.Error = item.Err.Error()
			resp.Failed++
		} else if a := item.Artifact; a != nil {
			out.Format = string(a.Format)
			out.ContentType = a.ContentType()
			out.Width = a.Width
			out.Height = a.Height
			out.Data = a.Data
		}
		resp.Items[i] = out
	}
	writeJSON(w, http.StatusOK, resp)
}
