// Package types provides common type definitions for the wealth planner system.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AssetCategory represents the liquidity class of an allocation
type AssetCategory string

const (
	// CategoryFinancial represents liquid financial assets (funds, bonds, equities)
	CategoryFinancial AssetCategory = "FINANCIAL"
	// CategoryRealEstate represents illiquid real-estate assets
	CategoryRealEstate AssetCategory = "REAL_ESTATE"
)

// Valid reports whether the category is a known value
func (c AssetCategory) Valid() bool {
	return c == CategoryFinancial || c == CategoryRealEstate
}

// LifeStatus selects the insurance growth/decay regime used during projection
type LifeStatus string

const (
	// StatusAlive represents a living client (insurance grows at half rate)
	StatusAlive LifeStatus = "VIVO"
	// StatusDeceased represents a deceased client (one-time payout discount, then flat)
	StatusDeceased LifeStatus = "MORTO"
	// StatusDisabled represents a permanently disabled client (straight-line decay after year five)
	StatusDisabled LifeStatus = "INVALIDO"
)

// Valid reports whether the life status is a known value
func (s LifeStatus) Valid() bool {
	return s == StatusAlive || s == StatusDeceased || s == StatusDisabled
}

// MovementDirection represents whether a movement adds to or draws from the plan
type MovementDirection string

const (
	// DirectionIncome represents a cash inflow
	DirectionIncome MovementDirection = "INCOME"
	// DirectionExpense represents a cash outflow
	DirectionExpense MovementDirection = "EXPENSE"
)

// Valid reports whether the direction is a known value
func (d MovementDirection) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Recurrence represents how often a movement repeats
type Recurrence string

const (
	// RecurrenceUnique represents a one-off movement
	RecurrenceUnique Recurrence = "UNIQUE"
	// RecurrenceMonthly represents a movement repeating every month
	RecurrenceMonthly Recurrence = "MONTHLY"
	// RecurrenceAnnual represents a movement repeating every year
	RecurrenceAnnual Recurrence = "ANNUAL"
)

// Valid reports whether the recurrence is a known value
func (r Recurrence) Valid() bool {
	return r == RecurrenceUnique || r == RecurrenceMonthly || r == RecurrenceAnnual
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// DateLayout is the wire and storage format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date with day precision and no timezone significance.
// The zero value is the zero date and reports IsZero() == true.
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month and day.
// Out-of-range components are normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD format
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected format %s", s, DateLayout)
	}
	return DateOf(t), nil
}

// Year returns the calendar year
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month
func (d Date) Day() int { return d.t.Day() }

// Time returns the date as a UTC midnight time.Time
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether the date is the zero value
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar date
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddMonths returns the date n months later.
// Month arithmetic follows time.AddDate normalization (Jan 31 + 1 month lands in March).
func (d Date) AddMonths(n int) Date {
	return DateOf(d.t.AddDate(0, n, 0))
}

// AddYears returns the date n years later
func (d Date) AddYears(n int) Date {
	return DateOf(d.t.AddDate(n, 0, 0))
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string in %s format: %w", DateLayout, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so DATE columns map onto Date
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer for DATE columns
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}
