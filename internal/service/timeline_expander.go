package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// TimelineEntry is one concrete dated occurrence of a movement
type TimelineEntry struct {
	Date             types.Date              `json:"date"`
	Direction        types.MovementDirection `json:"direction"`
	Amount           decimal.Decimal         `json:"amount"`
	Description      string                  `json:"description"`
	SourceMovementID string                  `json:"sourceMovementId"`
}

// TimelineExpander expands recurring movements into dated entries inside a
// year window. It performs no compounding and is independent of the
// projection loop; like the engine it is pure and safe to call concurrently.
type TimelineExpander struct{}

// NewTimelineExpander creates a timeline expander
func NewTimelineExpander() *TimelineExpander {
	return &TimelineExpander{}
}

// Expand produces every occurrence of the given movements between January 1st
// of windowStart and December 31st of windowEnd.
//
// A movement's effective range is [startDate, endDate] clipped to the window;
// an open-ended movement runs to the window end. Unique movements emit a
// single entry at their start date when it falls inside the window. Monthly
// and annual movements advance a fresh cursor from the start date one
// month or year at a time, inclusive of the effective end, emitting only the
// dates inside the window. Entries are sorted ascending by date; entries on
// the same date keep the original movement order.
func (x *TimelineExpander) Expand(movements []RecurringMovement, windowStart, windowEnd int) []TimelineEntry {
	windowStartDate := types.NewDate(windowStart, time.January, 1)
	windowEndDate := types.NewDate(windowEnd, time.December, 31)

	entries := make([]TimelineEntry, 0)

	for _, m := range movements {
		effectiveEnd := windowEndDate
		if m.EndDate != nil && m.EndDate.Before(windowEndDate) {
			effectiveEnd = *m.EndDate
		}

		switch m.Recurrence {
		case types.RecurrenceUnique:
			if !m.StartDate.Before(windowStartDate) && !m.StartDate.After(effectiveEnd) {
				entries = append(entries, entryFor(m, m.StartDate))
			}

		case types.RecurrenceMonthly:
			for cursor := m.StartDate; !cursor.After(effectiveEnd); cursor = cursor.AddMonths(1) {
				if !cursor.Before(windowStartDate) {
					entries = append(entries, entryFor(m, cursor))
				}
			}

		case types.RecurrenceAnnual:
			for cursor := m.StartDate; !cursor.After(effectiveEnd); cursor = cursor.AddYears(1) {
				if !cursor.Before(windowStartDate) {
					entries = append(entries, entryFor(m, cursor))
				}
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return entries
}

func entryFor(m RecurringMovement, date types.Date) TimelineEntry {
	return TimelineEntry{
		Date:             date,
		Direction:        m.Direction,
		Amount:           m.Amount,
		Description:      m.Description,
		SourceMovementID: m.ID,
	}
}
