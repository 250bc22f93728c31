package domain

import (
	"fmt"
	"time"
)

// Membership status drives whether a member may enroll in classes.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
	// StatusUnknown is the fallback for unrecognized external values.
	StatusUnknown Status = "unknown"
)

// ParseStatus maps external text onto a Status, falling back to
// StatusUnknown instead of erroring.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusActive, StatusPending, StatusSuspended:
		return Status(raw)
	}
	return StatusUnknown
}

// Role of a user account. Admin and staff are payment-exempt.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
	// RoleUnknown is the fallback for unrecognized external values.
	RoleUnknown Role = "unknown"
)

// ParseRole maps external text onto a Role, falling back to RoleUnknown.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin, RoleStaff, RoleUser:
		return Role(raw)
	}
	return RoleUnknown
}

// Exempt reports whether the role never pays fees.
func (r Role) Exempt() bool {
	return r == RoleAdmin || r == RoleStaff
}

// graceDays is the last day of the month on which a pending member may
// still enroll. From day suspensionDay on, an unpaid member is suspended.
const (
	graceDays     = 5
	suspensionDay = 15
)

// CurrentMonthYear extracts the calendar month and year of now. Month
// boundaries downstream are [YYYY-MM-01, next-month-01).
func CurrentMonthYear(now time.Time) (time.Month, int) {
	return now.Month(), now.Year()
}

// InsuranceValid reports whether the last medical insurance payment is
// still in force at now. The rule compares calendar components, not
// elapsed time: the payment expires on the same month/day of the next
// year. Feb 29 and month-length quirks are accepted as-is.
func InsuranceValid(last *time.Time, now time.Time) bool {
	if last == nil {
		return false
	}
	switch years := now.Year() - last.Year(); {
	case years <= 0:
		return true
	case years == 1:
		if now.Month() != last.Month() {
			return now.Month() < last.Month()
		}
		return now.Day() < last.Day()
	default:
		return false
	}
}

// NextStatus computes the status a member should hold given the supplied
// payment facts and the calendar day of now. It is idempotent: the caller
// persists only when the result differs from the stored status.
func NextStatus(current Status, paidThisMonth bool, role Role, insured bool, now time.Time) Status {
	if role.Exempt() {
		return StatusActive
	}
	if paidThisMonth && insured {
		return StatusActive
	}
	if now.Day() >= suspensionDay {
		return StatusSuspended
	}
	// Days 1-14: grace period (1-5) and blocked-pending (6-14) share the
	// stored status; they differ only in enrollment eligibility.
	return StatusPending
}

// CanEnroll reports whether a member may enroll in classes right now.
// Without valid insurance the answer is always no. Pending members keep
// the privilege through day 5 of the month.
func CanEnroll(status Status, insured bool, now time.Time) bool {
	if !insured {
		return false
	}
	switch status {
	case StatusActive:
		return true
	case StatusPending:
		return now.Day() <= graceDays
	default:
		return false
	}
}

// Enrollment explanations shown to members. EnrollMessage returns "" iff
// CanEnroll returns true for the same inputs.
const (
	msgNoInsurance = "Necesitas un seguro médico en vigor para apuntarte a las clases."
	msgPendingLate = "Tu cuota de este mes está pendiente y el periodo de gracia (días 1 a 5) ha terminado. Abona la cuota para volver a apuntarte."
	msgSuspended   = "Tu cuenta está suspendida por impago. Ponte al día con la cuota para volver a apuntarte."
	msgUnknown     = "Estado de cuenta no reconocido. Contacta con el gimnasio."
)

// EnrollMessage explains why a member cannot enroll, or returns "" when
// CanEnroll would allow it.
func EnrollMessage(status Status, insured bool, now time.Time) string {
	if !insured {
		return msgNoInsurance
	}
	switch status {
	case StatusActive:
		return ""
	case StatusPending:
		if now.Day() <= graceDays {
			return ""
		}
		return msgPendingLate
	case StatusSuspended:
		return msgSuspended
	default:
		return msgUnknown
	}
}

// CanEnrollClassType reports whether the member's most recent qualifying
// payment grants access to classes of the given discipline. The caller
// must already have excluded Matrícula and Seguro médico when looking up
// the payment; those concepts grant nothing here regardless.
func CanEnrollClassType(discipline string, concept Concept) bool {
	return concept.Grants(discipline)
}

// ClassRestrictionMessage mirrors CanEnrollClassType: "" when eligible,
// otherwise an explanation of the missing fee.
func ClassRestrictionMessage(discipline string, concept Concept) string {
	if concept.Grants(discipline) {
		return ""
	}
	switch concept {
	case ConceptMonthlyMuayThai, ConceptMonthlyMMA:
		return fmt.Sprintf("Tu cuota actual (%s) no incluye las clases de %s.", concept, discipline)
	default:
		return fmt.Sprintf("Necesitas una cuota mensual que incluya %s para apuntarte a esta clase.", discipline)
	}
}
