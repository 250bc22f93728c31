package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ClassSchedule is the structured form of a class's free-text weekly
// schedule. The zero value is the "no schedule" sentinel produced for
// malformed input; it is not an error.
type ClassSchedule struct {
	Days  []string `json:"days"`
	Start string   `json:"start"` // HH:MM
	End   string   `json:"end"`   // HH:MM
}

// Valid reports whether the schedule carries at least one day and both
// times. Parsed schedules are either valid or the zero sentinel.
func (s ClassSchedule) Valid() bool {
	return len(s.Days) > 0 && s.Start != "" && s.End != ""
}

func (s ClassSchedule) hasDay(name string) bool {
	for _, d := range s.Days {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// weekdayNames holds the Spanish weekday vocabulary indexed by
// time.Weekday (Sunday first).
var weekdayNames = [7]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// WeekdayName returns the Spanish name for a weekday.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

var scheduleTimeRe = regexp.MustCompile(`(\d{2}:\d{2})-(\d{2}:\d{2})`)

// ParseSchedule parses a schedule string of the form
// "Lunes, Miércoles y Viernes 19:00-20:00". Day names are kept as written
// (membership in the weekday vocabulary is a caller-side concern). A
// missing time range, a start not strictly before the end, or an empty
// day list yields the zero sentinel.
func ParseSchedule(raw string) ClassSchedule {
	m := scheduleTimeRe.FindStringSubmatch(raw)
	if m == nil {
		return ClassSchedule{}
	}
	start, end := m[1], m[2]
	if hhmmToMinutes(start) >= hhmmToMinutes(end) {
		return ClassSchedule{}
	}

	rest := strings.Replace(raw, m[0], "", 1)
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, ",")
	rest = strings.ReplaceAll(rest, " y ", ",")

	var days []string
	for _, part := range strings.Split(rest, ",") {
		if part = strings.TrimSpace(part); part != "" {
			days = append(days, part)
		}
	}
	if len(days) == 0 {
		return ClassSchedule{}
	}
	return ClassSchedule{Days: days, Start: start, End: end}
}

// Sentinel strings for NextOccurrence.
const (
	msgInvalidSchedule = "Horario inválido"
	msgNoSessions      = "Sin próximas sesiones"
)

// NextOccurrence describes the next session of the schedule relative to
// now. When today is a scheduled day the session may be upcoming or
// already ongoing; otherwise the week is scanned forward. A schedule
// whose only day matches exactly 7 days ahead (today, window elapsed)
// yields the bare "<dayname> start-end" form.
func NextOccurrence(s ClassSchedule, now time.Time) string {
	if !s.Valid() {
		return msgInvalidSchedule
	}
	nowM := now.Hour()*60 + now.Minute()
	if s.hasDay(WeekdayName(now.Weekday())) && nowM < hhmmToMinutes(s.End) {
		if nowM < hhmmToMinutes(s.Start) {
			return fmt.Sprintf("Hoy %s-%s", s.Start, s.End)
		}
		return fmt.Sprintf("En curso, hasta las %s", s.End)
	}
	for ahead := 1; ahead <= 7; ahead++ {
		name := WeekdayName(now.AddDate(0, 0, ahead).Weekday())
		if !s.hasDay(name) {
			continue
		}
		switch {
		case ahead == 1:
			return fmt.Sprintf("Mañana %s-%s", s.Start, s.End)
		case ahead <= 6:
			return fmt.Sprintf("Próximo %s %s-%s", name, s.Start, s.End)
		default:
			return fmt.Sprintf("%s %s-%s", name, s.Start, s.End)
		}
	}
	return msgNoSessions
}

// TimeUntilNext renders the countdown to today's session start, e.g.
// "in 60 minutes" or "in 1h 30m". It is empty unless today is a scheduled
// day and the session has not started yet.
func TimeUntilNext(s ClassSchedule, now time.Time) string {
	if !s.Valid() || !s.hasDay(WeekdayName(now.Weekday())) {
		return ""
	}
	nowM := now.Hour()*60 + now.Minute()
	startM := hhmmToMinutes(s.Start)
	if nowM >= startM {
		return ""
	}
	diff := startM - nowM
	if diff <= 60 {
		return fmt.Sprintf("in %d minutes", diff)
	}
	return fmt.Sprintf("in %dh %dm", diff/60, diff%60)
}

// ShouldReset reports whether today's session window has elapsed, meaning
// the enrollment roster should be cleared now. It tracks no state:
// clearing is idempotent and the caller may repeat it safely.
func ShouldReset(s ClassSchedule, now time.Time) bool {
	if !s.Valid() || !s.hasDay(WeekdayName(now.Weekday())) {
		return false
	}
	return now.Hour()*60+now.Minute() > hhmmToMinutes(s.End)
}

// SessionSchedule pairs a class id with its raw schedule string, as fed
// to the reset job.
type SessionSchedule struct {
	ID       string
	Schedule string
}

// SessionsToReset filters the sessions whose window has elapsed at now,
// preserving input order.
func SessionsToReset(sessions []SessionSchedule, now time.Time) []string {
	var ids []string
	for _, s := range sessions {
		if ShouldReset(ParseSchedule(s.Schedule), now) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// hhmmToMinutes converts "HH:MM" to minutes since midnight. Components
// are not range-checked; malformed input degrades to 0.
func hhmmToMinutes(hhmm string) int {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0
	}
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}
