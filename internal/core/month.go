package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey identifies a calendar month for aggregation, e.g. 2024-03.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// MonthKeyOf returns the month key the date falls in.
func MonthKeyOf(d Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// ParseMonthKey parses a YYYY-MM string.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return MonthKey{}, fmt.Errorf("invalid month key %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("invalid month key %q", s)
	}
	return MonthKey{Year: year, Month: month}, nil
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Days returns the number of calendar days in the month, leap years
// included. Day zero of the next month is the last day of this one.
func (k MonthKey) Days() int {
	return time.Date(k.Year, time.Month(k.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether the date falls inside this month.
func (k MonthKey) Contains(d Date) bool {
	return d.Year() == k.Year && d.Month() == k.Month
}

// Before reports whether k is chronologically before other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *MonthKey) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMonthKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
