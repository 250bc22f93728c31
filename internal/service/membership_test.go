package service

import (
	"context"
	"testing"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"go.uber.org/zap"
)

// --- mock stores ---

type mockUserStore struct {
	users   map[string]*domain.User
	updates map[string]domain.Status
}

func newMockUserStore(users ...*domain.User) *mockUserStore {
	m := &mockUserStore{users: map[string]*domain.User{}, updates: map[string]domain.Status{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUserStore) ListAll(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserStore) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	m.updates[id] = status
	m.users[id].Status = status
	return nil
}

type mockPaymentFacts struct {
	insurance map[string]*time.Time
	paid      map[string]bool
	concepts  map[string]domain.Concept
}

func (m *mockPaymentFacts) LastInsuranceDate(_ context.Context, userID string) (*time.Time, error) {
	return m.insurance[userID], nil
}

func (m *mockPaymentFacts) HasPaymentInMonth(_ context.Context, userID string, _ int, _ time.Month) (bool, error) {
	return m.paid[userID], nil
}

func (m *mockPaymentFacts) LastQualifyingConcept(_ context.Context, userID string) (domain.Concept, error) {
	return m.concepts[userID], nil
}

type mockRosterStore struct {
	dropped map[string]int
}

func (m *mockRosterStore) UnenrollEverywhere(_ context.Context, userID string) (int64, error) {
	if m.dropped == nil {
		m.dropped = map[string]int{}
	}
	m.dropped[userID]++
	return 2, nil
}

func member(id string, status domain.Status) *domain.User {
	return &domain.User{ID: id, Email: id + "@test", Role: domain.RoleUser, Status: status}
}

func insuredSince(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// --- tests ---

func TestRefresh_PaidAndInsuredBecomesActive(t *testing.T) {
	users := newMockUserStore(member("u1", domain.StatusPending))
	facts := &mockPaymentFacts{
		insurance: map[string]*time.Time{"u1": insuredSince(2025, time.January, 10)},
		paid:      map[string]bool{"u1": true},
	}
	rosters := &mockRosterStore{}
	svc := NewMembershipService(users, facts, rosters, zap.NewNop())

	now := time.Date(2025, time.May, 20, 12, 0, 0, 0, time.UTC)
	status, changed, err := svc.Refresh(context.Background(), users.users["u1"], now)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if status != domain.StatusActive || !changed {
		t.Fatalf("want active/changed, got %s/%v", status, changed)
	}
	if users.updates["u1"] != domain.StatusActive {
		t.Fatalf("status not persisted, got %q", users.updates["u1"])
	}
	if len(rosters.dropped) != 0 {
		t.Fatalf("no roster drop expected, got %v", rosters.dropped)
	}

	// Same facts again: idempotent, nothing persisted.
	_, changed, err = svc.Refresh(context.Background(), users.users["u1"], now)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if changed {
		t.Fatal("second refresh should not report a change")
	}
}

func TestRefresh_UnpaidAfterDay15SuspendsAndDropsRosters(t *testing.T) {
	users := newMockUserStore(member("u1", domain.StatusActive))
	facts := &mockPaymentFacts{
		insurance: map[string]*time.Time{"u1": insuredSince(2025, time.January, 10)},
		paid:      map[string]bool{},
	}
	rosters := &mockRosterStore{}
	svc := NewMembershipService(users, facts, rosters, zap.NewNop())

	now := time.Date(2025, time.May, 16, 9, 0, 0, 0, time.UTC)
	status, changed, err := svc.Refresh(context.Background(), users.users["u1"], now)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if status != domain.StatusSuspended || !changed {
		t.Fatalf("want suspended/changed, got %s/%v", status, changed)
	}
	if rosters.dropped["u1"] != 1 {
		t.Fatalf("suspended member should be dropped from rosters once, got %d", rosters.dropped["u1"])
	}
}

func TestRefreshAll_CountsChangesAndKeepsExemptRolesActive(t *testing.T) {
	staff := &domain.User{ID: "s1", Role: domain.RoleStaff, Status: domain.StatusActive}
	unpaid := member("u1", domain.StatusActive)
	paid := member("u2", domain.StatusActive)
	users := newMockUserStore(staff, unpaid, paid)
	facts := &mockPaymentFacts{
		insurance: map[string]*time.Time{
			"u1": insuredSince(2025, time.January, 10),
			"u2": insuredSince(2025, time.January, 10),
		},
		paid: map[string]bool{"u2": true},
	}
	svc := NewMembershipService(users, facts, &mockRosterStore{}, zap.NewNop())

	now := time.Date(2025, time.May, 20, 8, 0, 0, 0, time.UTC)
	changed, err := svc.RefreshAll(context.Background(), now)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if changed != 1 {
		t.Fatalf("want 1 change, got %d", changed)
	}
	if users.users["s1"].Status != domain.StatusActive {
		t.Fatalf("staff must stay active, got %s", users.users["s1"].Status)
	}
	if users.users["u1"].Status != domain.StatusSuspended {
		t.Fatalf("unpaid member should be suspended, got %s", users.users["u1"].Status)
	}
	if users.users["u2"].Status != domain.StatusActive {
		t.Fatalf("paid member should stay active, got %s", users.users["u2"].Status)
	}
}

func TestReport_MatchesEngineDecisions(t *testing.T) {
	users := newMockUserStore(member("u1", domain.StatusPending))
	facts := &mockPaymentFacts{
		insurance: map[string]*time.Time{"u1": insuredSince(2025, time.January, 10)},
	}
	svc := NewMembershipService(users, facts, &mockRosterStore{}, zap.NewNop())

	// Day 3: grace period, eligible, no message.
	report, err := svc.Report(context.Background(), "u1", time.Date(2025, time.May, 3, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.CanEnroll || report.Message != "" {
		t.Fatalf("grace period: want eligible with no message, got %+v", report)
	}

	// Day 10: blocked-pending.
	report, err = svc.Report(context.Background(), "u1", time.Date(2025, time.May, 10, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.CanEnroll || report.Message == "" {
		t.Fatalf("blocked-pending: want ineligible with message, got %+v", report)
	}

	// No insurance: never eligible.
	facts.insurance = map[string]*time.Time{}
	report, err = svc.Report(context.Background(), "u1", time.Date(2025, time.May, 3, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Insured || report.CanEnroll {
		t.Fatalf("uninsured: want ineligible, got %+v", report)
	}
}

func TestClassEligibility(t *testing.T) {
	users := newMockUserStore(member("u1", domain.StatusActive))
	facts := &mockPaymentFacts{
		concepts: map[string]domain.Concept{"u1": domain.ConceptMonthlyMuayThai},
	}
	svc := NewMembershipService(users, facts, &mockRosterStore{}, zap.NewNop())

	ok, msg, err := svc.ClassEligibility(context.Background(), "u1", domain.DisciplineMMA)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if ok || msg == "" {
		t.Fatalf("Muay Thai fee must not grant MMA, got ok=%v msg=%q", ok, msg)
	}

	facts.concepts["u1"] = domain.ConceptMonthlyCombined
	ok, msg, err = svc.ClassEligibility(context.Background(), "u1", domain.DisciplineMMA)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if !ok || msg != "" {
		t.Fatalf("combined fee must grant MMA, got ok=%v msg=%q", ok, msg)
	}
}
