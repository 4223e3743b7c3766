package countdown

import (
	"fmt"
	"time"
)

// InvalidScheduleError is returned when an exam schedule cannot be built.
type InvalidScheduleError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule: %s %q: %s", e.Field, e.Value, e.Reason)
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour "HH:MM" value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if len(value) != 5 || value[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("expected HH:MM")
	}
	hour, ok := parseTwoDigits(value[0:2])
	if !ok || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour must be 00-23")
	}
	minute, ok := parseTwoDigits(value[3:5])
	if !ok || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute must be 00-59")
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseTwoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// String returns the 24-hour "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12Hour returns the display form used on the countdown board, e.g. "9:00 A.M.".
func (t TimeOfDay) Format12Hour() string {
	period := "A.M."
	if t.Hour >= 12 {
		period = "P.M."
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, period)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// ExamSchedule describes when one exam sits. It is immutable once built.
type ExamSchedule struct {
	year     int
	month    time.Month
	day      int
	location *time.Location
	start    TimeOfDay
	end      TimeOfDay
}

// NewSchedule builds a schedule from the exam date and "HH:MM" start/end times.
// The calendar day and location are taken from date; its clock part is ignored.
// Exams that would cross midnight are rejected.
func NewSchedule(date time.Time, start, end string) (ExamSchedule, error) {
	startTime, err := ParseTimeOfDay(start)
	if err != nil {
		return ExamSchedule{}, &InvalidScheduleError{Field: "start_time", Value: start, Reason: err.Error()}
	}
	endTime, err := ParseTimeOfDay(end)
	if err != nil {
		return ExamSchedule{}, &InvalidScheduleError{Field: "end_time", Value: end, Reason: err.Error()}
	}
	if endTime.minutes() <= startTime.minutes() {
		return ExamSchedule{}, &InvalidScheduleError{Field: "end_time", Value: end, Reason: "must be later than start_time on the same day"}
	}

	location := date.Location()
	if location == nil {
		location = time.Local
	}
	year, month, day := date.Date()
	return ExamSchedule{
		year:     year,
		month:    month,
		day:      day,
		location: location,
		start:    startTime,
		end:      endTime,
	}, nil
}

// Date returns midnight of the exam day in the schedule's location.
func (s ExamSchedule) Date() time.Time {
	return time.Date(s.year, s.month, s.day, 0, 0, 0, 0, s.loc())
}

// Start returns the scheduled start time of day.
func (s ExamSchedule) Start() TimeOfDay { return s.start }

// End returns the scheduled end time of day.
func (s ExamSchedule) End() TimeOfDay { return s.end }

// StartInstant returns the instant the exam begins.
func (s ExamSchedule) StartInstant() time.Time {
	return s.at(s.start)
}

// EndInstant returns the instant the exam finishes.
func (s ExamSchedule) EndInstant() time.Time {
	return s.at(s.end)
}

// Duration returns the scheduled length of the exam.
func (s ExamSchedule) Duration() time.Duration {
	return s.EndInstant().Sub(s.StartInstant())
}

func (s ExamSchedule) at(t TimeOfDay) time.Time {
	return time.Date(s.year, s.month, s.day, t.Hour, t.Minute, 0, 0, s.loc())
}

// loc covers the zero ExamSchedule, which has no location.
func (s ExamSchedule) loc() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}
