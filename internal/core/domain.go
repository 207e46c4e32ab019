package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date without time-of-day semantics.
	Date struct {
		time.Time
	}

	// Money is an amount in paise. All arithmetic happens on integers;
	// rupee floats exist only at the display edge.
	Money struct {
		Paise int64
	}

	// Expense is a single ledger record. Records are immutable once
	// added; the only mutation the ledger supports is removal.
	Expense struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     Date   `json:"date"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidDate   = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the invariants required to admit a record into the
// ledger: a real date, a non-empty title and a positive amount. The
// category is a free label and deliberately not checked against the
// registry; records may reference labels that were never registered.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	return e.Amount.Validate()
}
