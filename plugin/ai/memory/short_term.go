package memory

import (
	"context"
	"sync"
	"time"
)

// Config configures the in-memory conversation store.
type Config struct {
	// MaxTurns is the sliding-window cap on messages kept per session
	// (default 50).
	MaxTurns int
	// IdleTTL evicts sessions not touched for this long (default 1h).
	IdleTTL time.Duration
	// CleanupInterval is how often stale sessions are swept (default 10m).
	CleanupInterval time.Duration
}

// ShortTermMemory is the in-memory Service implementation: a sliding
// window of messages per session with background eviction of idle
// sessions. Thread-safe for concurrent access.
type ShortTermMemory struct {
	mu       sync.RWMutex
	sessions map[string]*sessionData
	maxTurns int
	idleTTL  time.Duration

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type sessionData struct {
	messages   []Message
	lastAccess time.Time
}

// NewShortTermMemory creates a new in-memory conversation store and
// starts its cleanup goroutine.
func NewShortTermMemory(cfg Config) *ShortTermMemory {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 50
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	stm := &ShortTermMemory{
		sessions: make(map[string]*sessionData),
		maxTurns: cfg.MaxTurns,
		idleTTL:  cfg.IdleTTL,
		ctx:      ctx,
		cancel:   cancel,
	}
	stm.wg.Add(1)
	go stm.cleanupLoop(cfg.CleanupInterval)
	return stm
}

// Close stops the cleanup goroutine and releases resources.
func (s *ShortTermMemory) Close() {
	s.cancel()
	s.wg.Wait()
}

// Append adds a message to a session, creating the session lazily and
// trimming the oldest messages past the sliding-window cap.
func (s *ShortTermMemory) Append(_ context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		session = &sessionData{messages: make([]Message, 0, s.maxTurns)}
		s.sessions[sessionID] = session
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	session.messages = append(session.messages, msg)
	session.lastAccess = time.Now()

	if len(session.messages) > s.maxTurns {
		session.messages = session.messages[len(session.messages)-s.maxTurns:]
	}
	return nil
}

// LastK returns up to k most recent messages in chronological order.
// Reads refresh the session's idle clock.
func (s *ShortTermMemory) LastK(_ context.Context, sessionID string, k int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists || len(session.messages) == 0 {
		return []Message{}, nil
	}

	session.lastAccess = time.Now()

	messages := session.messages
	if k > 0 && k < len(messages) {
		messages = messages[len(messages)-k:]
	}

	// Return a copy to prevent modification
	result := make([]Message, len(messages))
	copy(result, messages)
	return result, nil
}

// Reset removes all messages from a session.
func (s *ShortTermMemory) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// SessionCount returns the number of active sessions.
func (s *ShortTermMemory) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanupLoop periodically removes sessions idle longer than the TTL.
// Stops when the context is cancelled.
func (s *ShortTermMemory) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for sessionID, session := range s.sessions {
				if now.Sub(session.lastAccess) > s.idleTTL {
					delete(s.sessions, sessionID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Ensure ShortTermMemory implements Service
var _ Service = (*ShortTermMemory)(nil)
