package reservation

import (
	"errors"
	"fmt"
	"time"

	"gearlend/internal/pkg/clock"
)

var ErrInvalidDateRange = errors.New("end date must not be before start date")

// DateRange is an inclusive day-granular range [Start, End]. Both bounds are
// truncated to midnight UTC on construction; time-of-day never participates
// in overlap checks.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s := clock.TruncateToDay(start)
	e := clock.TruncateToDay(end)
	if e.Before(s) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: s, end: e}, nil
}

// MustDateRange panics on an invalid range. Test and fixture use only.
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Days is the number of calendar days covered, inclusive of both bounds.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start)/(24*time.Hour)) + 1
}

// Overlaps reports whether two inclusive ranges share at least one day.
// Two ranges [s1,e1], [s2,e2] overlap iff s1 <= e2 && e1 >= s2; a shared
// boundary day counts as overlap, and single-day ranges (s == e) behave
// correctly.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

func (r DateRange) Contains(day time.Time) bool {
	d := clock.TruncateToDay(day)
	return !d.Before(r.start) && !d.After(r.end)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.start.Format("2006-01-02"), r.end.Format("2006-01-02"))
}

// DaysUntilDue classifies the range's end against "today":
// 0 = due today, 1 = due tomorrow, negative = overdue by that many days.
// Both sides are already midnight-truncated, so time-of-day noise cannot
// shift the classification.
func (r DateRange) DaysUntilDue(today time.Time) int {
	t := clock.TruncateToDay(today)
	return int(r.end.Sub(t) / (24 * time.Hour))
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
