package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeOfDay = errors.New("invalid time, expected HH:MM")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar day with no time-of-day component. Two reservations
// belong to the same day when their Date values are equal, regardless of how
// the original request expressed the day boundary.
type Date struct {
	value time.Time // midnight UTC of the calendar day
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.value.Format(dateLayout)
}

func (d Date) Time() time.Time {
	return d.value
}

func (d Date) IsZero() bool {
	return d.value.IsZero()
}

func (d Date) Equal(other Date) bool {
	return d.value.Equal(other.value)
}

func (d Date) Before(other Date) bool {
	return d.value.Before(other.value)
}

// DayStart and DayEnd bound the calendar day window
// [00:00:00.000, 23:59:59.999] used when grouping reservations by date.
func (d Date) DayStart() time.Time {
	return d.value
}

func (d Date) DayEnd() time.Time {
	return d.value.Add(24*time.Hour - time.Millisecond)
}

// TimeOfDay is a wall-clock time at minute granularity. Conflict detection
// compares these values for exact equality; durations never widen the match.
type TimeOfDay struct {
	minutes int // minutes since midnight
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != len(timeLayout) {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.minutes == other.minutes
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

// Slot is the (date, time) half of the booking fingerprint; together with a
// table id it uniquely identifies a bookable slot.
type Slot struct {
	date      Date
	timeOfDay TimeOfDay
}

func NewSlot(date Date, timeOfDay TimeOfDay) Slot {
	return Slot{date: date, timeOfDay: timeOfDay}
}

func ParseSlot(dateStr, timeStr string) (Slot, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return Slot{}, err
	}
	timeOfDay, err := ParseTimeOfDay(timeStr)
	if err != nil {
		return Slot{}, err
	}
	return NewSlot(date, timeOfDay), nil
}

func (s Slot) Date() Date {
	return s.date
}

func (s Slot) TimeOfDay() TimeOfDay {
	return s.timeOfDay
}

func (s Slot) Equal(other Slot) bool {
	return s.date.Equal(other.date) && s.timeOfDay.Equal(other.timeOfDay)
}

func (s Slot) Before(other Slot) bool {
	if !s.date.Equal(other.date) {
		return s.date.Before(other.date)
	}
	return s.timeOfDay.Before(other.timeOfDay)
}

// Details carries the optional booking metadata. None of it participates in
// conflict detection; duration in particular does not block adjacent slots.
type Details struct {
	SpecialRequests string
	Occasion        string
	DurationMinutes int
	ContactPhone    string
	Channel         string
	Notes           string
}
