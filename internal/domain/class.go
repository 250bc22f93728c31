package domain

import (
	"time"

	"github.com/google/uuid"
)

// Class is a recurring weekly class. Schedule holds the admin-entered
// free-text string ("Lunes, Miércoles y Viernes 19:00-20:00"); it is
// parsed on demand, never stored in structured form.
type Class struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Discipline  string    `json:"discipline"`
	Schedule    string    `json:"schedule"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateClassRequest is the validated input for creating a class.
// Discipline is re-checked against the taught disciplines in the service.
type CreateClassRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Discipline  string `json:"discipline" validate:"required"`
	Schedule    string `json:"schedule" validate:"required,max=200"`
	Capacity    int    `json:"capacity" validate:"required,gt=0,lte=200"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateClassRequest is the validated input for updating a class.
type UpdateClassRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=100"`
	Discipline  string `json:"discipline" validate:"omitempty"`
	Schedule    string `json:"schedule" validate:"omitempty,max=200"`
	Capacity    int    `json:"capacity" validate:"omitempty,gt=0,lte=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ClassResponse is a class enriched with roster size and the derived
// next-session description for the moment of the request.
type ClassResponse struct {
	Class
	Enrolled    int    `json:"enrolled"`
	EnrolledMe  bool   `json:"enrolledMe"`
	NextSession string `json:"nextSession"`
	StartsIn    string `json:"startsIn,omitempty"`
}

// RosterEntry is one enrolled member as shown to staff.
type RosterEntry struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// NewClassID generates a new UUID for a class.
func NewClassID() string {
	return uuid.New().String()
}
