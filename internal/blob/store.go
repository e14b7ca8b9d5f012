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

// Package blob hands out transient handles for rendered artifacts. A handle
// stays valid until it is released.
package blob

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
)

// ErrNotFound is returned for unknown or released handles.
var ErrNotFound = errors.New("artifact handle not found")

// Store keeps acquired artifacts in memory.
type Store struct {
	mu    sync.RWMutex
	items map[string]*render.Artifact
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*render.Artifact),
	}
}

// Acquire registers a and returns its handle.
func (s *Store) Acquire(a *render.Artifact) string {
	handle := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[handle] = a
	return handle
}

// Release drops a handle. Releasing an unknown handle is a no-op.
func (s *Store) Release(handle string) {
	if handle == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, handle)
}

// Get returns the artifact behind handle.
func (s *Store) Get(handle string) (*render.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Len reports how many handles are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
