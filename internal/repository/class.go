package repository

import (
	"context"
	"fmt"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassRepository handles database operations for classes and their
// enrollment rosters.
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, name, discipline, schedule, capacity, description, created_at`

func scanClass(row pgx.Row) (*domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.Name, &c.Discipline, &c.Schedule, &c.Capacity, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *domain.Class) error {
	query := `
		INSERT INTO classes (id, name, discipline, schedule, capacity, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Discipline, c.Schedule, c.Capacity, c.Description, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

// Update persists class fields.
func (r *ClassRepository) Update(ctx context.Context, c *domain.Class) error {
	query := `
		UPDATE classes SET name = $1, discipline = $2, schedule = $3, capacity = $4, description = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, c.Name, c.Discipline, c.Schedule, c.Capacity, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return nil
}

// FindByID returns a class by ID, or nil when absent.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*domain.Class, error) {
	row := r.db.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	c, err := scanClass(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find class: %w", err)
	}
	return c, nil
}

// ListAll returns all classes ordered by creation date.
func (r *ClassRepository) ListAll(ctx context.Context) ([]*domain.Class, error) {
	rows, err := r.db.Query(ctx, `SELECT `+classColumns+` FROM classes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var classes []*domain.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// ListSessionSchedules returns id+schedule pairs for the reset job.
func (r *ClassRepository) ListSessionSchedules(ctx context.Context) ([]domain.SessionSchedule, error) {
	rows, err := r.db.Query(ctx, `SELECT id, schedule FROM classes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list class schedules: %w", err)
	}
	defer rows.Close()

	var sessions []domain.SessionSchedule
	for rows.Next() {
		var s domain.SessionSchedule
		if err := rows.Scan(&s.ID, &s.Schedule); err != nil {
			return nil, fmt.Errorf("failed to scan class schedule: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// Delete removes a class by ID; enrollments cascade.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}

// Enroll adds a user to a class roster. Enrolling twice is a conflict.
func (r *ClassRepository) Enroll(ctx context.Context, classID, userID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO class_enrollments (class_id, user_id) VALUES ($1, $2)`,
		classID, userID)
	if err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

// Unenroll removes a user from a class roster.
func (r *ClassRepository) Unenroll(ctx context.Context, classID, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM class_enrollments WHERE class_id = $1 AND user_id = $2`,
		classID, userID)
	if err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}
	return nil
}

// IsEnrolled reports whether the user is on the class roster.
func (r *ClassRepository) IsEnrolled(ctx context.Context, classID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_enrollments WHERE class_id = $1 AND user_id = $2)`,
		classID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}

// CountEnrolled returns the roster size of a class.
func (r *ClassRepository) CountEnrolled(ctx context.Context, classID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM class_enrollments WHERE class_id = $1`, classID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

// Roster returns the enrolled members of a class.
func (r *ClassRepository) Roster(ctx context.Context, classID string) ([]domain.RosterEntry, error) {
	query := `
		SELECT u.id, u.name, u.email, e.created_at
		FROM class_enrollments e JOIN users u ON u.id = e.user_id
		WHERE e.class_id = $1
		ORDER BY e.created_at
	`
	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	defer rows.Close()

	var roster []domain.RosterEntry
	for rows.Next() {
		var e domain.RosterEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Email, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster = append(roster, e)
	}
	return roster, nil
}

// ClearEnrollments deletes every enrollment of a class and returns how
// many rows were removed. Clearing an empty roster is a no-op.
func (r *ClassRepository) ClearEnrollments(ctx context.Context, classID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear enrollments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UnenrollEverywhere removes a user from every roster. Used when a member
// transitions to suspended.
func (r *ClassRepository) UnenrollEverywhere(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_enrollments WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to unenroll user: %w", err)
	}
	return tag.RowsAffected(), nil
}
