package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
)

// fakeConv is an in-memory ConversationRepo capturing calls.
type fakeConv struct {
	turns    map[string][]domain.Turn
	seq      uint64
	replaced []string

	appendErr  error
	replaceErr error
}

func newFakeConv() *fakeConv {
	return &fakeConv{turns: make(map[string][]domain.Turn)}
}

func (f *fakeConv) AppendTurn(_ context.Context, _ *gorm.DB, userID, role, content string, keep int) (*domain.Turn, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.seq++
	t := domain.Turn{Seq: f.seq, UserID: userID, Role: role, Content: content}
	f.turns[userID] = append(f.turns[userID], t)
	if keep > 0 && len(f.turns[userID]) > keep {
		f.turns[userID] = f.turns[userID][len(f.turns[userID])-keep:]
	}
	return &t, nil
}

func (f *fakeConv) ReplaceConversation(_ context.Context, _ *gorm.DB, userID, systemContent string) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, userID)
	f.seq++
	f.turns[userID] = []domain.Turn{{Seq: f.seq, UserID: userID, Role: domain.RoleSystem, Content: systemContent}}
	return nil
}

func (f *fakeConv) ListRecentTurns(_ context.Context, _ *gorm.DB, userID string, limit int) ([]domain.Turn, error) {
	ts := f.turns[userID]
	if len(ts) > limit {
		ts = ts[len(ts)-limit:]
	}
	out := make([]domain.Turn, len(ts))
	copy(out, ts)
	return out, nil
}

func (f *fakeConv) CountTurns(_ context.Context, _ *gorm.DB, userID string) (int64, error) {
	return int64(len(f.turns[userID])), nil
}

func newTestSessions(conv *fakeConv) (*SessionManager, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewSessionManager(nil, conv)
	m.Now = func() time.Time { return now }
	return m, &now
}

func TestResolveFirstContact(t *testing.T) {
	m, _ := newTestSessions(newFakeConv())

	tr, err := m.Resolve(context.Background(), "u1", "persona")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Expired || tr.Delay != 0 {
		t.Fatalf("expected no-op transition, got %+v", tr)
	}
}

func TestResolveShortGap(t *testing.T) {
	m, now := newTestSessions(newFakeConv())
	ctx := context.Background()

	m.Resolve(ctx, "u1", "persona")
	*now = now.Add(3 * time.Minute)

	tr, err := m.Resolve(ctx, "u1", "persona")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Expired || tr.Delay != 0 {
		t.Fatalf("gap under 5m must not delay or expire, got %+v", tr)
	}
}

func TestResolveMediumGapDelays(t *testing.T) {
	m, now := newTestSessions(newFakeConv())
	ctx := context.Background()

	m.Resolve(ctx, "u1", "persona")
	*now = now.Add(12 * time.Minute)

	tr, err := m.Resolve(ctx, "u1", "persona")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Expired {
		t.Fatal("gap under 20m must not expire")
	}
	if tr.Delay != m.ThinkingDelay {
		t.Fatalf("Delay = %v, want %v", tr.Delay, m.ThinkingDelay)
	}
}

func TestResolveIdleTimeoutResets(t *testing.T) {
	conv := newFakeConv()
	m, now := newTestSessions(conv)
	ctx := context.Background()

	m.Resolve(ctx, "u1", "persona")
	conv.AppendTurn(ctx, nil, "u1", domain.RoleUser, "oi", m.KeepTurns)
	*now = now.Add(25 * time.Minute)

	tr, err := m.Resolve(ctx, "u1", "nova persona")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !tr.Expired {
		t.Fatal("gap over 20m must expire the session")
	}
	if len(conv.replaced) != 1 || conv.replaced[0] != "u1" {
		t.Fatalf("expected one replacement for u1, got %v", conv.replaced)
	}
	if got := conv.turns["u1"]; len(got) != 1 || got[0].Role != domain.RoleSystem {
		t.Fatalf("expected a single seeded system turn, got %v", got)
	}
}

func TestResolveUsersAreIndependent(t *testing.T) {
	m, now := newTestSessions(newFakeConv())
	ctx := context.Background()

	m.Resolve(ctx, "u1", "persona")
	*now = now.Add(25 * time.Minute)

	tr, err := m.Resolve(ctx, "u2", "persona")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Expired || tr.Delay != 0 {
		t.Fatalf("u1 idleness must not affect u2, got %+v", tr)
	}
}

func TestEnsureSeededOnlyWhenEmpty(t *testing.T) {
	conv := newFakeConv()
	m, _ := newTestSessions(conv)
	ctx := context.Background()

	if err := m.EnsureSeeded(ctx, "u1", "persona"); err != nil {
		t.Fatalf("EnsureSeeded: %v", err)
	}
	if got := conv.turns["u1"]; len(got) != 1 || got[0].Role != domain.RoleSystem || got[0].Content != "persona" {
		t.Fatalf("expected one system turn, got %v", got)
	}

	if err := m.EnsureSeeded(ctx, "u1", "persona"); err != nil {
		t.Fatalf("EnsureSeeded: %v", err)
	}
	if len(conv.turns["u1"]) != 1 {
		t.Fatalf("second EnsureSeeded must be a no-op, got %d turns", len(conv.turns["u1"]))
	}
}

func TestBuildContextWindow(t *testing.T) {
	conv := newFakeConv()
	m, _ := newTestSessions(conv)
	ctx := context.Background()

	conv.AppendTurn(ctx, nil, "u1", domain.RoleSystem, "persona antiga", m.KeepTurns)
	for i := 0; i < 12; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		conv.AppendTurn(ctx, nil, "u1", role, fmt.Sprintf("turno %d", i), m.KeepTurns)
	}

	turns, err := m.BuildContext(ctx, "u1", "persona nova")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(turns) != 1+m.ContextTurns {
		t.Fatalf("len = %d, want %d", len(turns), 1+m.ContextTurns)
	}
	if turns[0].Role != domain.RoleSystem || turns[0].Content != "persona nova" {
		t.Fatalf("context must start with the fresh persona, got %+v", turns[0])
	}
	for _, tr := range turns[1:] {
		if tr.Role == domain.RoleSystem {
			t.Fatalf("stored system turns must be excluded, got %+v", tr)
		}
	}
	if turns[len(turns)-1].Content != "turno 11" {
		t.Fatalf("window must end at the newest turn, got %q", turns[len(turns)-1].Content)
	}
}

func TestBuildContextShortHistory(t *testing.T) {
	conv := newFakeConv()
	m, _ := newTestSessions(conv)
	ctx := context.Background()

	conv.AppendTurn(ctx, nil, "u1", domain.RoleUser, "oi", m.KeepTurns)

	turns, err := m.BuildContext(ctx, "u1", "persona")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len = %d, want 2", len(turns))
	}
}
