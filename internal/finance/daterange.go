package finance

import "time"

// DateRange is a closed reporting interval normalized to whole-day bounds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes start/end to whole-day UTC bounds. A zero start
// and end default to the calendar month containing now. End before start
// is ErrValidation.
func NewDateRange(start, end, now time.Time) (DateRange, error) {
	if start.IsZero() && end.IsZero() {
		return CurrentMonthRange(now), nil
	}
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ValidationErrorf("both range start and end are required")
	}
	if dayStart(end).Before(dayStart(start)) {
		return DateRange{}, ValidationErrorf("range end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return DateRange{Start: dayStart(start), End: dayEnd(end)}, nil
}

// CurrentMonthRange returns the whole calendar month containing now.
func CurrentMonthRange(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateRange{Start: first, End: dayEnd(last)}
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
