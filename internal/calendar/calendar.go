package calendar

import (
    "time"
)

// Calendar answers "do banks publish rates on this date". Non-trading days
// are weekends plus a fixed set of recurring month-day holidays. The set is
// immutable after construction; holidays that move year to year (lunar
// calendar) are not modeled.
type Calendar struct {
    holidays map[string]struct{} // "MM-DD"
}

func New(holidays []string) *Calendar {
    set := make(map[string]struct{}, len(holidays))
    for _, h := range holidays {
        set[h] = struct{}{}
    }
    return &Calendar{holidays: set}
}

func (c *Calendar) IsTradingDay(d time.Time) bool {
    switch d.Weekday() {
    case time.Saturday, time.Sunday:
        return false
    }
    _, holiday := c.holidays[d.Format("01-02")]
    return !holiday
}

// PreviousTradingDay walks back one day at a time until a trading day is
// found. The result is always strictly before d. Callers bound how far
// they are willing to walk.
func (c *Calendar) PreviousTradingDay(d time.Time) time.Time {
    for {
        d = d.AddDate(0, 0, -1)
        if c.IsTradingDay(d) {
            return d
        }
    }
}
