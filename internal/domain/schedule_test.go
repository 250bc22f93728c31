package domain

import (
	"reflect"
	"testing"
	"time"
)

// 2025-05-05 is a Monday; 2025-05-10 a Saturday.
func at(d int, hh, mm int) time.Time {
	return time.Date(2025, time.May, d, hh, mm, 0, 0, time.UTC)
}

func TestParseSchedule_RoundTrip(t *testing.T) {
	got := ParseSchedule("Lunes, Miércoles y Viernes 19:00-20:00")
	want := ClassSchedule{
		Days:  []string{"Lunes", "Miércoles", "Viernes"},
		Start: "19:00",
		End:   "20:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestParseSchedule_Sentinels(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no time range", "Formato inválido"},
		{"empty", ""},
		{"start not before end", "Lunes 20:00-19:00"},
		{"equal times", "Martes 10:00-10:00"},
		{"times without days", "19:00-20:00"},
	}
	for _, tc := range cases {
		if got := ParseSchedule(tc.raw); got.Valid() {
			t.Errorf("%s: want sentinel, got %+v", tc.name, got)
		}
	}
}

func TestParseSchedule_KeepsUnknownDayNames(t *testing.T) {
	got := ParseSchedule("Feriado y Lunes 10:00-11:00")
	want := []string{"Feriado", "Lunes"}
	if !reflect.DeepEqual(got.Days, want) {
		t.Fatalf("want days %v, got %v", want, got.Days)
	}
}

func TestNextOccurrence(t *testing.T) {
	weekly := ParseSchedule("Lunes, Miércoles y Viernes 19:00-20:00")

	cases := []struct {
		name string
		s    ClassSchedule
		now  time.Time
		want string
	}{
		{"invalid schedule", ParseSchedule("Formato inválido"), at(5, 12, 0), msgInvalidSchedule},
		{"today before start", weekly, at(5, 18, 0), "Hoy 19:00-20:00"},
		{"ongoing", weekly, at(5, 19, 30), "En curso, hasta las 20:00"},
		{"today after end, next is wednesday", weekly, at(5, 21, 0), "Próximo Miércoles 19:00-20:00"},
		{"tomorrow", ParseSchedule("Martes 19:00-20:00"), at(5, 12, 0), "Mañana 19:00-20:00"},
		{"later this week", weekly, at(6, 12, 0), "Mañana 19:00-20:00"},
		{"wraparound to same day", ParseSchedule("Sábado 10:00-11:30"), at(10, 12, 0), "Sábado 10:00-11:30"},
		{"no real weekday", ParseSchedule("Feriado 10:00-11:00"), at(5, 12, 0), msgNoSessions},
	}
	for _, tc := range cases {
		if got := NextOccurrence(tc.s, tc.now); got != tc.want {
			t.Errorf("%s: want %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestTimeUntilNext(t *testing.T) {
	saturday := ParseSchedule("Sábado 10:00-11:30")

	cases := []struct {
		name string
		s    ClassSchedule
		now  time.Time
		want string
	}{
		{"one hour before", saturday, at(10, 9, 0), "in 60 minutes"},
		{"ten minutes before", saturday, at(10, 9, 50), "in 10 minutes"},
		{"ninety minutes before", saturday, at(10, 8, 30), "in 1h 30m"},
		{"session ongoing", saturday, at(10, 10, 30), ""},
		{"session over", saturday, at(10, 12, 0), ""},
		{"not today", saturday, at(5, 9, 0), ""},
		{"invalid schedule", ParseSchedule("Formato inválido"), at(10, 9, 0), ""},
	}
	for _, tc := range cases {
		if got := TimeUntilNext(tc.s, tc.now); got != tc.want {
			t.Errorf("%s: want %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestShouldReset(t *testing.T) {
	saturday := ParseSchedule("Sábado 10:00-11:30")

	cases := []struct {
		name string
		s    ClassSchedule
		now  time.Time
		want bool
	}{
		{"window elapsed", saturday, at(10, 12, 0), true},
		{"before start", saturday, at(10, 9, 0), false},
		{"exactly at end", saturday, at(10, 11, 30), false},
		{"one minute past end", saturday, at(10, 11, 31), true},
		{"other day", saturday, at(5, 12, 0), false},
		{"invalid schedule", ParseSchedule("Formato inválido"), at(10, 12, 0), false},
	}
	for _, tc := range cases {
		if got := ShouldReset(tc.s, tc.now); got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSessionsToReset(t *testing.T) {
	// Saturday noon: the morning Saturday session has elapsed, the evening
	// one has not, Monday's is not today, and the malformed one never fires.
	sessions := []SessionSchedule{
		{ID: "a", Schedule: "Sábado 10:00-11:30"},
		{ID: "b", Schedule: "Sábado 18:00-19:30"},
		{ID: "c", Schedule: "Lunes 10:00-11:00"},
		{ID: "d", Schedule: "sin horario"},
	}
	got := SessionsToReset(sessions, at(10, 12, 0))
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("want [a], got %v", got)
	}

	// Late Saturday night both Saturday sessions have elapsed.
	got = SessionsToReset(sessions, at(10, 23, 0))
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("want [a b], got %v", got)
	}

	if got = SessionsToReset(nil, at(10, 12, 0)); got != nil {
		t.Fatalf("want nil, got %v", got)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(at(10, 0, 0).Weekday()); got != "Sábado" {
		t.Fatalf("want Sábado, got %s", got)
	}
	if got := WeekdayName(at(11, 0, 0).Weekday()); got != "Domingo" {
		t.Fatalf("want Domingo, got %s", got)
	}
}
