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

// Package store persists saved QR code records and their scan counters.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("qr code not found")

// Record is a saved QR code.
type Record struct {
	ID        string           `json:"id"`
	Category  payload.Category `json:"category"`
	Name      string           `json:"name,omitempty"`
	Payload   string           `json:"payload"`
	Form      []byte           `json:"-"`
	Style     style.Style      `json:"style"`
	ImageKey  string           `json:"imageKey"`
	ImageURL  string           `json:"imageUrl"`
	Format    string           `json:"format"`
	Scans     int64            `json:"scans"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store is the record store collaborator.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	IncrementScans(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]*Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// prepare assigns an id and timestamps before a save. Logo bytes are not
// persisted with the record.
func prepare(rec *Record, now time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	rec.Style.Logo = nil
}
