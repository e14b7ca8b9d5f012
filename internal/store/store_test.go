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

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

func TestMemoryStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &Record{
		Category: payload.CategoryLink,
		Payload:  "https://example.com",
		Style:    style.Style{ForegroundColor: "#112233", Logo: []byte("png")},
		Format:   "png",
	}
	require.NoError(t, s.Save(ctx, rec))
	require.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Nil(t, rec.Style.Logo)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.Payload)
	assert.Equal(t, "#112233", got.Style.ForegroundColor)

	got.Payload = "mutated"
	again, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", again.Payload)
}

func TestMemoryStore_SaveKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &Record{ID: "fixed", CreatedAt: created}
	require.NoError(t, s.Save(ctx, rec))
	assert.Equal(t, "fixed", rec.ID)
	assert.Equal(t, created, rec.CreatedAt)
	assert.True(t, rec.UpdatedAt.After(created))
}

func TestMemoryStore_IncrementScans(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := &Record{Payload: "x"}
	require.NoError(t, s.Save(ctx, rec))

	for i := 1; i <= 3; i++ {
		got, err := s.IncrementScans(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.Scans)
	}

	_, err := s.IncrementScans(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, &Record{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	top, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	require.NoError(t, s.Delete(ctx, "b"))
	assert.ErrorIs(t, s.Delete(ctx, "b"), ErrNotFound)
	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Close())
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ? WHERE id = ? AND b = ?"
	assert.Equal(t, q, rebind(config.DBTypeMySQL, q))
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2 AND b = $3", rebind(config.DBTypePostgres, q))
}

func TestSchemaStatement(t *testing.T) {
	mysql := schemaStatement(config.DBTypeMySQL)
	pg := schemaStatement(config.DBTypePostgres)
	assert.Contains(t, mysql, "DATETIME(6)")
	assert.Contains(t, pg, "TIMESTAMPTZ")
	for _, stmt := range []string{mysql, pg} {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS qr_codes"))
		for _, col := range strings.Split(recordColumns, ", ") {
			assert.Contains(t, stmt, col+" ")
		}
	}
}

func TestOpenDatabaseConnection_UnsupportedType(t *testing.T) {
	_, err := openDatabaseConnection(config.DatabaseConfig{Type: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
