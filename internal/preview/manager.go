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

package preview

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
)

var (
	ErrSessionNotFound = errors.New("preview session not found")
	ErrTooManySessions = errors.New("too many preview sessions")
)

// Manager tracks the open preview sessions of a server.
type Manager struct {
	logger      *zap.Logger
	renderer    Renderer
	handles     Handles
	cfg         Config
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Controller
	lastSeen map[string]time.Time
	sweeper  Timer
	stopped  bool
}

// NewManager creates a Manager allowing at most maxSessions open sessions.
// A non-positive maxSessions means no limit. With a positive
// cfg.IdleTimeout, sessions untouched for that long are closed by a
// periodic sweep.
func NewManager(logger *zap.Logger, renderer Renderer, handles Handles, cfg Config, maxSessions int) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	m := &Manager{
		logger:      logger,
		renderer:    renderer,
		handles:     handles,
		cfg:         cfg,
		maxSessions: maxSessions,
		sessions:    make(map[string]*Controller),
		lastSeen:    make(map[string]time.Time),
	}
	if cfg.IdleTimeout > 0 {
		m.sweeper = cfg.Clock.AfterFunc(m.sweepInterval(), m.sweep)
	}
	return m
}

func (m *Manager) sweepInterval() time.Duration {
	interval := m.cfg.IdleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (m *Manager) sweep() {
	m.ReapIdle()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.sweeper = m.cfg.Clock.AfterFunc(m.sweepInterval(), m.sweep)
}

// ReapIdle closes every session untouched for longer than the idle timeout
// and returns how many it closed.
func (m *Manager) ReapIdle() int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.cfg.Clock.Now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var expired []*Controller
	for id, seen := range m.lastSeen {
		if !seen.Before(cutoff) {
			continue
		}
		expired = append(expired, m.sessions[id])
		delete(m.sessions, id)
		delete(m.lastSeen, id)
		m.logger.Info("Preview session expired", zap.String("session_id", id))
	}
	m.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	return len(expired)
}

// Open starts a session for category and returns its id.
func (m *Manager) Open(category payload.Category) (string, *Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return "", nil, ErrTooManySessions
	}

	id := uuid.NewString()
	ctrl, err := NewController(m.logger.With(zap.String("session_id", id)), category, m.renderer, m.handles, m.cfg)
	if err != nil {
		return "", nil, err
	}
	m.sessions[id] = ctrl
	m.lastSeen[id] = m.cfg.Clock.Now()
	m.logger.Debug("Preview session opened", zap.String("session_id", id), zap.String("category", category.String()))
	return id, ctrl, nil
}

// Get returns the session with id and marks it as used.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.lastSeen[id] = m.cfg.Clock.Now()
	return ctrl, nil
}

// Close tears down the session with id.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	delete(m.sessions, id)
	delete(m.lastSeen, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	ctrl.Close()
	return nil
}

// CloseAll tears down every session and stops the idle sweep.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Controller)
	m.lastSeen = make(map[string]time.Time)
	m.stopped = true
	if m.sweeper != nil {
		m.sweeper.Stop()
	}
	m.mu.Unlock()

	for _, ctrl := range sessions {
		ctrl.Close()
	}
}

// Len reports the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
