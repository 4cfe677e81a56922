// Package services – SessionManager
//
// SessionManager owns the per-user conversation lifecycle: idle-timeout
// detection, persona seeding, the "welcome back" reset, the artificial
// thinking delay, and the decoupled retention/context windows (10 turns
// kept, persona + last 8 sent to the model).
//
// Last-activity timestamps are process-wide and in-memory by design; only
// conversation turns are durable.
package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
	"github.com/Lehmann-Bruno/petup-assistant/internal/llm"
)

// ConversationRepo defines the persistence contract for per-user memory.
// Implementations are responsible for enforcing the retention cap on append.
type ConversationRepo interface {
	// AppendTurn appends one turn and trims the history to at most keep turns.
	AppendTurn(ctx context.Context, db *gorm.DB, userID, role, content string, keep int) (*domain.Turn, error)

	// ReplaceConversation drops a user's history and seeds one system turn.
	ReplaceConversation(ctx context.Context, db *gorm.DB, userID, systemContent string) error

	// ListRecentTurns returns the newest limit turns in chronological order.
	ListRecentTurns(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Turn, error)

	// CountTurns returns the number of retained turns for a user.
	CountTurns(ctx context.Context, db *gorm.DB, userID string) (int64, error)
}

// Transition is the outcome of evaluating a user's session on an inbound
// message.
type Transition struct {
	// Expired is true when the idle timeout fired: memory was replaced with
	// a fresh persona turn and the caller must send the welcome-back reply
	// in addition to normal processing.
	Expired bool
	// Delay is an artificial thinking pause to apply before the model call.
	Delay time.Duration
}

// SessionManager evaluates session transitions once per inbound message,
// before topic filtering.
type SessionManager struct {
	DB   *gorm.DB
	Conv ConversationRepo

	// IdleReset is the inactivity threshold that resets context (20m).
	IdleReset time.Duration
	// DelayAfter is the gap beyond which the thinking delay applies (5m).
	DelayAfter time.Duration
	// ThinkingDelay is the artificial pause duration (~2s).
	ThinkingDelay time.Duration
	// KeepTurns is the retention cap applied on every persisted append.
	KeepTurns int
	// ContextTurns is the window sent to the model (persona excluded).
	ContextTurns int

	// Now is a clock seam for tests.
	Now func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewSessionManager constructs a manager with the production thresholds.
func NewSessionManager(db *gorm.DB, conv ConversationRepo) *SessionManager {
	return &SessionManager{
		DB:            db,
		Conv:          conv,
		IdleReset:     20 * time.Minute,
		DelayAfter:    5 * time.Minute,
		ThinkingDelay: 2 * time.Second,
		KeepTurns:     10,
		ContextTurns:  8,
		Now:           time.Now,
		lastSeen:      make(map[string]time.Time),
	}
}

// Resolve records activity for userID and returns the transition for this
// message. When the idle timeout fired, the whole history is already
// replaced with the given persona turn on return.
func (m *SessionManager) Resolve(ctx context.Context, userID, persona string) (Transition, error) {
	now := m.Now()

	m.mu.Lock()
	last, seen := m.lastSeen[userID]
	m.lastSeen[userID] = now
	m.mu.Unlock()

	if !seen {
		return Transition{}, nil
	}

	gap := now.Sub(last)
	switch {
	case gap > m.IdleReset:
		if err := m.Conv.ReplaceConversation(ctx, m.DB, userID, persona); err != nil {
			return Transition{Expired: true}, err
		}
		return Transition{Expired: true}, nil
	case gap > m.DelayAfter:
		return Transition{Delay: m.ThinkingDelay}, nil
	}
	return Transition{}, nil
}

// EnsureSeeded seeds a user's history with the persona turn when no turns
// are retained yet (first contact, or an empty store).
func (m *SessionManager) EnsureSeeded(ctx context.Context, userID, persona string) error {
	total, err := m.Conv.CountTurns(ctx, m.DB, userID)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	_, err = m.Conv.AppendTurn(ctx, m.DB, userID, domain.RoleSystem, persona, m.KeepTurns)
	return err
}

// RecordTurn appends one turn under the retention cap.
func (m *SessionManager) RecordTurn(ctx context.Context, userID, role, content string) error {
	_, err := m.Conv.AppendTurn(ctx, m.DB, userID, role, content, m.KeepTurns)
	return err
}

// BuildContext assembles the model context: a fresh persona turn followed
// by the last ContextTurns retained turns, system turns excluded. More is
// kept in storage than is shown to the model on purpose: retention and
// context are decoupled windows.
func (m *SessionManager) BuildContext(ctx context.Context, userID, persona string) ([]llm.Turn, error) {
	// Fetch one extra so a stored system turn inside the window does not
	// shrink the user-visible context.
	recent, err := m.Conv.ListRecentTurns(ctx, m.DB, userID, m.ContextTurns+1)
	if err != nil {
		return nil, err
	}

	out := make([]llm.Turn, 0, m.ContextTurns+1)
	out = append(out, llm.Turn{Role: domain.RoleSystem, Content: persona})
	filtered := make([]llm.Turn, 0, len(recent))
	for _, t := range recent {
		if t.Role == domain.RoleSystem {
			continue
		}
		filtered = append(filtered, llm.Turn{Role: t.Role, Content: t.Content})
	}
	if len(filtered) > m.ContextTurns {
		filtered = filtered[len(filtered)-m.ContextTurns:]
	}
	return append(out, filtered...), nil
}
