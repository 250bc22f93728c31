package service

import (
	"context"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"go.uber.org/zap"
)

// SessionStore is the slice of the class repository the reset job needs.
type SessionStore interface {
	ListSessionSchedules(ctx context.Context) ([]domain.SessionSchedule, error)
	ClearEnrollments(ctx context.Context, classID string) (int64, error)
}

// Scheduler periodically refreshes membership statuses and clears the
// rosters of class sessions whose window has elapsed. Both jobs are
// idempotent, so overlapping external cron triggers are harmless.
type Scheduler struct {
	membership *MembershipService
	sessions   SessionStore
	log        *zap.Logger
	interval   time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(membership *MembershipService, sessions SessionStore, log *zap.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		membership: membership,
		sessions:   sessions,
		log:        log,
		interval:   interval,
	}
}

// Start begins the cycle loop in a background goroutine. The first cycle
// runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.RunOnce(ctx, time.Now())
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("scheduler stopping")
				return
			case <-ticker.C:
				s.RunOnce(ctx, time.Now())
			}
		}
	}()
}

// RunOnce performs one full cycle at a single consistent timestamp.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) {
	if _, err := s.RefreshMemberships(ctx, now); err != nil {
		s.log.Error("membership refresh cycle failed", zap.Error(err))
	}
	if _, err := s.ResetElapsedSessions(ctx, now); err != nil {
		s.log.Error("session reset cycle failed", zap.Error(err))
	}
}

// RefreshMemberships recomputes every user's membership status and
// returns how many changed.
func (s *Scheduler) RefreshMemberships(ctx context.Context, now time.Time) (int, error) {
	changed, err := s.membership.RefreshAll(ctx, now)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.log.Info("membership statuses refreshed", zap.Int("changed", changed))
	}
	return changed, nil
}

// ResetElapsedSessions clears the roster of every session whose window
// has elapsed today and returns how many rosters were cleared. Clearing
// an already-empty roster is a safe no-op; no dedupe state is kept.
func (s *Scheduler) ResetElapsedSessions(ctx context.Context, now time.Time) (int, error) {
	sessions, err := s.sessions.ListSessionSchedules(ctx)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, id := range domain.SessionsToReset(sessions, now) {
		removed, err := s.sessions.ClearEnrollments(ctx, id)
		if err != nil {
			s.log.Error("failed to clear roster", zap.String("class", id), zap.Error(err))
			continue
		}
		reset++
		if removed > 0 {
			s.log.Info("session roster cleared",
				zap.String("class", id), zap.Int64("enrollments", removed))
		}
	}
	return reset, nil
}
