package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInsuranceValid(t *testing.T) {
	now := date(2025, time.May, 10)
	paid := func(y int, m time.Month, d int) *time.Time {
		t := date(y, m, d)
		return &t
	}

	cases := []struct {
		name string
		last *time.Time
		now  time.Time
		want bool
	}{
		{"no payment", nil, now, false},
		{"same year", paid(2025, time.January, 2), now, true},
		{"day before anniversary", paid(2024, time.May, 11), now, true},
		{"anniversary day", paid(2024, time.May, 10), now, false},
		{"month after anniversary", paid(2024, time.April, 1), now, false},
		{"month before anniversary", paid(2024, time.June, 1), now, true},
		{"two years ago", paid(2023, time.May, 11), now, false},
		{"leap day still valid", paid(2024, time.February, 29), date(2025, time.February, 28), true},
		{"leap day expired next month", paid(2024, time.February, 29), date(2025, time.March, 1), false},
	}
	for _, tc := range cases {
		if got := InsuranceValid(tc.last, tc.now); got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestNextStatus_ExemptRoles(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleStaff} {
		for _, paid := range []bool{true, false} {
			for _, insured := range []bool{true, false} {
				got := NextStatus(StatusSuspended, paid, role, insured, date(2025, time.May, 20))
				if got != StatusActive {
					t.Fatalf("role %s paid=%v insured=%v: want active, got %s", role, paid, insured, got)
				}
			}
		}
	}
}

func TestNextStatus_DayOfMonthBranches(t *testing.T) {
	cases := []struct {
		day     int
		paid    bool
		insured bool
		want    Status
	}{
		{1, true, true, StatusActive},
		{20, true, true, StatusActive},
		{1, false, true, StatusPending},
		{5, true, false, StatusPending},
		{14, false, false, StatusPending},
		{15, false, true, StatusSuspended},
		{15, true, false, StatusSuspended},
		{31, false, false, StatusSuspended},
	}
	for _, tc := range cases {
		now := date(2025, time.May, tc.day)
		got := NextStatus(StatusActive, tc.paid, RoleUser, tc.insured, now)
		if got != tc.want {
			t.Errorf("day %d paid=%v insured=%v: want %s, got %s", tc.day, tc.paid, tc.insured, tc.want, got)
		}
		// Idempotent: feeding back the result changes nothing.
		if again := NextStatus(got, tc.paid, RoleUser, tc.insured, now); again != got {
			t.Errorf("day %d: not idempotent, %s then %s", tc.day, got, again)
		}
	}
}

func TestCanEnroll_NoInsuranceNeverEligible(t *testing.T) {
	for _, status := range []Status{StatusActive, StatusPending, StatusSuspended, StatusUnknown} {
		for day := 1; day <= 28; day++ {
			if CanEnroll(status, false, date(2025, time.May, day)) {
				t.Fatalf("status %s day %d: eligible without insurance", status, day)
			}
		}
	}
}

func TestCanEnroll_PendingGracePeriod(t *testing.T) {
	for day := 1; day <= 31; day++ {
		now := date(2025, time.July, day)
		want := day <= 5
		if got := CanEnroll(StatusPending, true, now); got != want {
			t.Errorf("pending day %d: want %v, got %v", day, want, got)
		}
	}
}

func TestCanEnroll_ByStatus(t *testing.T) {
	now := date(2025, time.May, 20)
	if !CanEnroll(StatusActive, true, now) {
		t.Error("active insured member should be eligible")
	}
	if CanEnroll(StatusSuspended, true, now) {
		t.Error("suspended member should not be eligible")
	}
	if CanEnroll(StatusUnknown, true, now) {
		t.Error("unknown status should degrade to not eligible")
	}
}

func TestEnrollMessage_NeverDisagreesWithCanEnroll(t *testing.T) {
	statuses := []Status{StatusActive, StatusPending, StatusSuspended, StatusUnknown}
	for _, status := range statuses {
		for _, insured := range []bool{true, false} {
			for day := 1; day <= 28; day++ {
				now := date(2025, time.May, day)
				can := CanEnroll(status, insured, now)
				msg := EnrollMessage(status, insured, now)
				if can != (msg == "") {
					t.Fatalf("status %s insured=%v day %d: CanEnroll=%v but message %q", status, insured, day, can, msg)
				}
			}
		}
	}
}

func TestCanEnrollClassType(t *testing.T) {
	cases := []struct {
		discipline string
		concept    Concept
		want       bool
	}{
		{DisciplineMMA, ConceptMonthlyMuayThai, false},
		{DisciplineMMA, ConceptMonthlyCombined, true},
		{DisciplineMMA, ConceptMonthlyMMA, true},
		{DisciplineMuayThai, ConceptMonthlyMuayThai, true},
		{DisciplineMuayThai, ConceptMonthlyMMA, false},
		{DisciplineMuayThai, ConceptMonthlyCombined, true},
		{DisciplineMuayThai, ConceptEnrollmentFee, false},
		{DisciplineMMA, ConceptInsurance, false},
		{DisciplineMMA, ConceptUnknown, false},
	}
	for _, tc := range cases {
		if got := CanEnrollClassType(tc.discipline, tc.concept); got != tc.want {
			t.Errorf("%s / %q: want %v, got %v", tc.discipline, tc.concept, tc.want, got)
		}
		msg := ClassRestrictionMessage(tc.discipline, tc.concept)
		if tc.want != (msg == "") {
			t.Errorf("%s / %q: eligibility %v but message %q", tc.discipline, tc.concept, tc.want, msg)
		}
	}
}

func TestParseFallbacks(t *testing.T) {
	if got := ParseStatus("frozen"); got != StatusUnknown {
		t.Errorf("ParseStatus: want unknown, got %s", got)
	}
	if got := ParseStatus("active"); got != StatusActive {
		t.Errorf("ParseStatus: want active, got %s", got)
	}
	if got := ParseRole("owner"); got != RoleUnknown {
		t.Errorf("ParseRole: want unknown, got %s", got)
	}
	if got := ParseConcept("Cuota anual"); got != ConceptUnknown {
		t.Errorf("ParseConcept: want unknown, got %q", got)
	}
	if got := ParseConcept("Cuota mensual Muay Thai + MMA"); got != ConceptMonthlyCombined {
		t.Errorf("ParseConcept: want combined, got %q", got)
	}
}

func TestCurrentMonthYear(t *testing.T) {
	m, y := CurrentMonthYear(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC))
	if m != time.December || y != 2025 {
		t.Fatalf("want December 2025, got %s %d", m, y)
	}
}
