package service

import (
	"context"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/repository"
	"github.com/go-playground/validator/v10"
)

// ClassService handles class administration and roster changes. Every
// enrollment passes through the membership engine's eligibility checks.
type ClassService struct {
	repo       *repository.ClassRepository
	membership *MembershipService
	validate   *validator.Validate
}

// NewClassService creates a new ClassService.
func NewClassService(repo *repository.ClassRepository, membership *MembershipService) *ClassService {
	return &ClassService{
		repo:       repo,
		membership: membership,
		validate:   validator.New(),
	}
}

// Create adds a new class (staff only).
func (s *ClassService) Create(ctx context.Context, req *domain.CreateClassRequest) (*domain.Class, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if !domain.KnownDiscipline(req.Discipline) {
		return nil, domain.ErrValidation("unrecognized discipline")
	}

	class := &domain.Class{
		ID:          domain.NewClassID(),
		Name:        req.Name,
		Discipline:  req.Discipline,
		Schedule:    req.Schedule,
		Capacity:    req.Capacity,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, domain.ErrInternal("failed to create class", err)
	}
	return class, nil
}

// Update modifies a class (staff only). Empty fields keep their value.
func (s *ClassService) Update(ctx context.Context, id string, req *domain.UpdateClassRequest) (*domain.Class, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find class", err)
	}
	if class == nil {
		return nil, domain.ErrNotFound("class not found")
	}

	if req.Name != "" {
		class.Name = req.Name
	}
	if req.Discipline != "" {
		if !domain.KnownDiscipline(req.Discipline) {
			return nil, domain.ErrValidation("unrecognized discipline")
		}
		class.Discipline = req.Discipline
	}
	if req.Schedule != "" {
		class.Schedule = req.Schedule
	}
	if req.Capacity > 0 {
		class.Capacity = req.Capacity
	}
	if req.Description != "" {
		class.Description = req.Description
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, domain.ErrInternal("failed to update class", err)
	}
	return class, nil
}

// Delete removes a class and its roster (staff only).
func (s *ClassService) Delete(ctx context.Context, id string) error {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("failed to find class", err)
	}
	if class == nil {
		return domain.ErrNotFound("class not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.ErrInternal("failed to delete class", err)
	}
	return nil
}

// List returns all classes enriched with roster size and the derived
// next-session description for the requesting member at now.
func (s *ClassService) List(ctx context.Context, userID string, now time.Time) ([]*domain.ClassResponse, error) {
	classes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrInternal("failed to list classes", err)
	}

	responses := make([]*domain.ClassResponse, 0, len(classes))
	for _, c := range classes {
		resp, err := s.classResponse(ctx, c, userID, now)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// GetByID returns one class with its derived session info.
func (s *ClassService) GetByID(ctx context.Context, id, userID string, now time.Time) (*domain.ClassResponse, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find class", err)
	}
	if class == nil {
		return nil, domain.ErrNotFound("class not found")
	}
	return s.classResponse(ctx, class, userID, now)
}

// Enroll adds the member to the class roster after both eligibility
// gates: membership status + insurance, then class-type payment match.
func (s *ClassService) Enroll(ctx context.Context, classID, userID string, now time.Time) error {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		return domain.ErrInternal("failed to find class", err)
	}
	if class == nil {
		return domain.ErrNotFound("class not found")
	}

	report, err := s.membership.Report(ctx, userID, now)
	if err != nil {
		return err
	}
	if !report.CanEnroll {
		return domain.ErrForbidden(report.Message)
	}

	ok, msg, err := s.membership.ClassEligibility(ctx, userID, class.Discipline)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden(msg)
	}

	enrolled, err := s.repo.IsEnrolled(ctx, classID, userID)
	if err != nil {
		return domain.ErrInternal("failed to check enrollment", err)
	}
	if enrolled {
		return domain.ErrConflict("already enrolled in this class")
	}

	count, err := s.repo.CountEnrolled(ctx, classID)
	if err != nil {
		return domain.ErrInternal("failed to count enrollments", err)
	}
	if count >= class.Capacity {
		return domain.ErrConflict("class is full")
	}

	if err := s.repo.Enroll(ctx, classID, userID); err != nil {
		return domain.ErrInternal("failed to enroll", err)
	}
	return nil
}

// Unenroll removes the member from the class roster.
func (s *ClassService) Unenroll(ctx context.Context, classID, userID string) error {
	enrolled, err := s.repo.IsEnrolled(ctx, classID, userID)
	if err != nil {
		return domain.ErrInternal("failed to check enrollment", err)
	}
	if !enrolled {
		return domain.ErrNotFound("not enrolled in this class")
	}
	if err := s.repo.Unenroll(ctx, classID, userID); err != nil {
		return domain.ErrInternal("failed to unenroll", err)
	}
	return nil
}

// Roster returns the enrolled members of a class (staff only).
func (s *ClassService) Roster(ctx context.Context, classID string) ([]domain.RosterEntry, error) {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find class", err)
	}
	if class == nil {
		return nil, domain.ErrNotFound("class not found")
	}
	roster, err := s.repo.Roster(ctx, classID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load roster", err)
	}
	return roster, nil
}

func (s *ClassService) classResponse(ctx context.Context, c *domain.Class, userID string, now time.Time) (*domain.ClassResponse, error) {
	count, err := s.repo.CountEnrolled(ctx, c.ID)
	if err != nil {
		return nil, domain.ErrInternal("failed to count enrollments", err)
	}
	enrolledMe, err := s.repo.IsEnrolled(ctx, c.ID, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to check enrollment", err)
	}

	schedule := domain.ParseSchedule(c.Schedule)
	return &domain.ClassResponse{
		Class:       *c,
		Enrolled:    count,
		EnrolledMe:  enrolledMe,
		NextSession: domain.NextOccurrence(schedule, now),
		StartsIn:    domain.TimeUntilNext(schedule, now),
	}, nil
}
