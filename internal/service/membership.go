package service

import (
	"context"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"go.uber.org/zap"
)

// UserStore is the slice of the user repository the membership engine
// needs: load accounts and persist status transitions.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// PaymentFacts provides the already-filtered payment lookups the engine's
// decision functions expect (see the repository for the exact queries).
type PaymentFacts interface {
	LastInsuranceDate(ctx context.Context, userID string) (*time.Time, error)
	HasPaymentInMonth(ctx context.Context, userID string, year int, month time.Month) (bool, error)
	LastQualifyingConcept(ctx context.Context, userID string) (domain.Concept, error)
}

// RosterStore drops suspended members from every class roster.
type RosterStore interface {
	UnenrollEverywhere(ctx context.Context, userID string) (int64, error)
}

// MembershipService glues fetched payment facts to the pure decision
// functions in domain and persists the outcomes. All methods take an
// explicit now so one decision uses one consistent timestamp.
type MembershipService struct {
	users    UserStore
	payments PaymentFacts
	rosters  RosterStore
	log      *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(users UserStore, payments PaymentFacts, rosters RosterStore, log *zap.Logger) *MembershipService {
	return &MembershipService{users: users, payments: payments, rosters: rosters, log: log}
}

// Refresh recomputes a user's membership status and persists it when it
// changed. A member transitioning to suspended is dropped from every
// class roster.
func (s *MembershipService) Refresh(ctx context.Context, user *domain.User, now time.Time) (domain.Status, bool, error) {
	insured, paid, err := s.statusFacts(ctx, user.ID, now)
	if err != nil {
		return user.Status, false, err
	}

	next := domain.NextStatus(user.Status, paid, user.Role, insured, now)
	if next == user.Status {
		return next, false, nil
	}

	if err := s.users.UpdateStatus(ctx, user.ID, next); err != nil {
		return user.Status, false, err
	}
	s.log.Info("membership status changed",
		zap.String("user", user.ID),
		zap.String("from", string(user.Status)),
		zap.String("to", string(next)))

	if next == domain.StatusSuspended {
		dropped, err := s.rosters.UnenrollEverywhere(ctx, user.ID)
		if err != nil {
			return next, true, err
		}
		if dropped > 0 {
			s.log.Info("suspended member dropped from rosters",
				zap.String("user", user.ID), zap.Int64("enrollments", dropped))
		}
	}
	return next, true, nil
}

// RefreshUser recomputes the status of a single user by id. Unknown ids
// are ignored: payment webhooks may race with account deletion.
func (s *MembershipService) RefreshUser(ctx context.Context, userID string, now time.Time) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	_, _, err = s.Refresh(ctx, user, now)
	return err
}

// RefreshAll recomputes every user's status and returns how many changed.
// A failing user is logged and skipped so one bad row cannot stall the
// daily job.
func (s *MembershipService) RefreshAll(ctx context.Context, now time.Time) (int, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, u := range users {
		_, didChange, err := s.Refresh(ctx, u, now)
		if err != nil {
			s.log.Error("membership refresh failed", zap.String("user", u.ID), zap.Error(err))
			continue
		}
		if didChange {
			changed++
		}
	}
	return changed, nil
}

// Report derives a member's enrollment eligibility at now. Nothing is
// persisted; the stored status is read as-is (the scheduler keeps it
// fresh, and payment events trigger on-demand refreshes).
func (s *MembershipService) Report(ctx context.Context, userID string, now time.Time) (*domain.MembershipReport, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}

	last, err := s.payments.LastInsuranceDate(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to check insurance", err)
	}
	insured := domain.InsuranceValid(last, now)

	return &domain.MembershipReport{
		Status:    user.Status,
		Insured:   insured,
		CanEnroll: domain.CanEnroll(user.Status, insured, now),
		Message:   domain.EnrollMessage(user.Status, insured, now),
	}, nil
}

// ClassEligibility reports whether the member's most recent qualifying
// payment covers the given discipline, with the matching explanation.
func (s *MembershipService) ClassEligibility(ctx context.Context, userID, discipline string) (bool, string, error) {
	concept, err := s.payments.LastQualifyingConcept(ctx, userID)
	if err != nil {
		return false, "", domain.ErrInternal("failed to check payments", err)
	}
	return domain.CanEnrollClassType(discipline, concept),
		domain.ClassRestrictionMessage(discipline, concept), nil
}

func (s *MembershipService) statusFacts(ctx context.Context, userID string, now time.Time) (insured, paid bool, err error) {
	last, err := s.payments.LastInsuranceDate(ctx, userID)
	if err != nil {
		return false, false, err
	}
	month, year := domain.CurrentMonthYear(now)
	paid, err = s.payments.HasPaymentInMonth(ctx, userID, year, month)
	if err != nil {
		return false, false, err
	}
	return domain.InsuranceValid(last, now), paid, nil
}
