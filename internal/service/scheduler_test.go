package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"go.uber.org/zap"
)

type mockSessionStore struct {
	sessions []domain.SessionSchedule
	cleared  []string
	failFor  string
}

func (m *mockSessionStore) ListSessionSchedules(_ context.Context) ([]domain.SessionSchedule, error) {
	return m.sessions, nil
}

func (m *mockSessionStore) ClearEnrollments(_ context.Context, classID string) (int64, error) {
	if classID == m.failFor {
		return 0, errors.New("boom")
	}
	m.cleared = append(m.cleared, classID)
	return 3, nil
}

func testScheduler(sessions *mockSessionStore) *Scheduler {
	users := newMockUserStore()
	facts := &mockPaymentFacts{}
	membership := NewMembershipService(users, facts, &mockRosterStore{}, zap.NewNop())
	return NewScheduler(membership, sessions, zap.NewNop(), time.Hour)
}

func TestResetElapsedSessions(t *testing.T) {
	// 2025-05-10 is a Saturday.
	saturdayNoon := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	store := &mockSessionStore{sessions: []domain.SessionSchedule{
		{ID: "morning", Schedule: "Sábado 10:00-11:30"},
		{ID: "evening", Schedule: "Sábado 18:00-19:30"},
		{ID: "weekday", Schedule: "Lunes y Miércoles 19:00-20:00"},
		{ID: "broken", Schedule: "sin horario"},
	}}

	reset, err := testScheduler(store).ResetElapsedSessions(context.Background(), saturdayNoon)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset != 1 {
		t.Fatalf("want 1 reset, got %d", reset)
	}
	if len(store.cleared) != 1 || store.cleared[0] != "morning" {
		t.Fatalf("want [morning] cleared, got %v", store.cleared)
	}

	// Running again immediately is safe: same roster cleared again.
	if _, err := testScheduler(store).ResetElapsedSessions(context.Background(), saturdayNoon); err != nil {
		t.Fatalf("second reset: %v", err)
	}
}

func TestResetElapsedSessions_ContinuesPastFailures(t *testing.T) {
	lateNight := time.Date(2025, time.May, 10, 23, 0, 0, 0, time.UTC)
	store := &mockSessionStore{
		sessions: []domain.SessionSchedule{
			{ID: "morning", Schedule: "Sábado 10:00-11:30"},
			{ID: "evening", Schedule: "Sábado 18:00-19:30"},
		},
		failFor: "morning",
	}

	reset, err := testScheduler(store).ResetElapsedSessions(context.Background(), lateNight)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset != 1 {
		t.Fatalf("want 1 reset despite failure, got %d", reset)
	}
	if len(store.cleared) != 1 || store.cleared[0] != "evening" {
		t.Fatalf("want [evening] cleared, got %v", store.cleared)
	}
}

func TestRunOnce_RunsBothJobs(t *testing.T) {
	saturdayNoon := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	store := &mockSessionStore{sessions: []domain.SessionSchedule{
		{ID: "morning", Schedule: "Sábado 10:00-11:30"},
	}}
	users := newMockUserStore(member("u1", domain.StatusActive))
	facts := &mockPaymentFacts{
		insurance: map[string]*time.Time{"u1": insuredSince(2025, time.January, 10)},
	}
	membership := NewMembershipService(users, facts, &mockRosterStore{}, zap.NewNop())
	sched := NewScheduler(membership, store, zap.NewNop(), time.Hour)

	sched.RunOnce(context.Background(), saturdayNoon)

	// Day 10, unpaid: the engine moves the active member to pending.
	if users.users["u1"].Status != domain.StatusPending {
		t.Fatalf("want pending after refresh, got %s", users.users["u1"].Status)
	}
	if len(store.cleared) != 1 {
		t.Fatalf("want 1 roster cleared, got %v", store.cleared)
	}
}
