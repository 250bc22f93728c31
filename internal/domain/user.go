package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a gym member or staff account. Status is mutated only through
// the membership engine, never directly by handlers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"-"` // bcrypt hash, never serialized
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	MedicalNotes string    `json:"-"` // AES-GCM ciphertext at rest
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LoginRequest is the validated input for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse is the API response after successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the user info returned after login.
type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// JWTClaims represents the JWT payload.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// CreateUserRequest is the validated input for registering a member.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=user staff admin"`
}

// UpdateMedicalRequest carries a member's medical notes, stored encrypted.
type UpdateMedicalRequest struct {
	Notes string `json:"notes" validate:"max=4000"`
}

// UserResponse is the safe API response for a user (no password, no
// medical notes).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// MembershipReport is the derived enrollment eligibility of a member,
// recomputed on every request and never persisted.
type MembershipReport struct {
	Status    Status `json:"status"`
	Insured   bool   `json:"insured"`
	CanEnroll bool   `json:"canEnroll"`
	Message   string `json:"message,omitempty"`
}

// NewUserID generates a new UUID for a user.
func NewUserID() string {
	return uuid.New().String()
}
