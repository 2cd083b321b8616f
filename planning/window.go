package planning

import "time"

// =============================================================================
// DATE - Day-granularity time point
// =============================================================================

// Date is a calendar day, normalized to UTC midnight. Requirements,
// allocations and leave periods are all bounded by dates, never by
// finer-grained times.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

func (d Date) IsZero() bool   { return d.Time.IsZero() }
func (d Date) String() string { return d.Time.Format("2006-01-02") }

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// DaysBetween returns the number of days from from to to.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// DATE WINDOW - Inclusive [Start, End] interval
// =============================================================================

// DateWindow is an inclusive date interval. It is the single overlap
// primitive used everywhere overlap matters: allocations vs requirements,
// allocations vs leave, leave vs allocation windows.
type DateWindow struct {
	Start Date
	End   Date
}

// NewDateWindow constructs a window from two dates.
func NewDateWindow(start, end Date) DateWindow {
	return DateWindow{Start: start, End: end}
}

// IsValid reports whether both bounds are set and Start <= End.
func (w DateWindow) IsValid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.BeforeOrEqual(w.End)
}

// Overlaps reports whether w and other intersect. Bounds are inclusive:
// two windows that merely touch on a single day overlap.
func (w DateWindow) Overlaps(other DateWindow) bool {
	return w.Start.BeforeOrEqual(other.End) && w.End.AfterOrEqual(other.Start)
}

// Intersect returns the intersection of w and other. ok is false when the
// windows do not overlap.
func (w DateWindow) Intersect(other DateWindow) (DateWindow, bool) {
	out := DateWindow{Start: MaxDate(w.Start, other.Start), End: MinDate(w.End, other.End)}
	if out.Start.After(out.End) {
		return DateWindow{}, false
	}
	return out, true
}

// Contains reports whether d falls inside the window.
func (w DateWindow) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// Days returns the inclusive length of the window in days.
func (w DateWindow) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

func (w DateWindow) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}
