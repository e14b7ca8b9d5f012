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

package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/config"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost:8080/")

	data := []byte{1, 2, 3}
	u, err := m.Put(ctx, "abc.png", data, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/images/abc.png", u)

	data[0] = 9
	got, ct, err := m.Get(ctx, "abc.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, "image/png", ct)

	_, _, err = m.Get(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, m.Len())
	require.NoError(t, m.Delete(ctx, "abc.png"))
	require.NoError(t, m.Delete(ctx, "abc.png"))
	assert.Zero(t, m.Len())
	_, _, err = m.Get(ctx, "abc.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_URL(t *testing.T) {
	s, err := NewS3Store(config.ObjectStoreConfig{
		Endpoint: "minio.local:9000",
		Bucket:   "qr-codes",
		Region:   "us-east-1",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/qr-codes/a.svg", s.URL("a.svg"))

	s, err = NewS3Store(config.ObjectStoreConfig{Endpoint: "s3.example.com", Bucket: "b", UseSSL: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/b/k.png", s.URL("k.png"))
}
