// Package core holds the kharcha domain types: dates, money and
// expense records, plus the month keys the aggregation layer works in.
//
// This file contains money parsing and formatting. Amounts arrive as
// decimal strings from forms and JSON bodies and are converted to paise
// with half-up rounding on the third decimal place.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal rupee string to Money.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Negative
// and zero amounts are rejected; an expense always costs something.
//
// Examples:
//
//	ParseAmount("150")    -> 15000 paise
//	ParseAmount("12.34")  -> 1234 paise
//	ParseAmount("12.346") -> 1235 paise (rounds up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Guard the *100 below.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	paise := iv*100 + frac
	if paise <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Paise: paise}, nil
}

// Rupees returns the rupee value as a float64 for display purposes.
// Use paise for calculations.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// RoundRupees returns the amount rounded half-up to whole rupees.
// Chart series report whole-rupee buckets.
func (m Money) RoundRupees() int64 {
	if m.Paise < 0 {
		return -Money{Paise: -m.Paise}.RoundRupees()
	}
	return (m.Paise + 50) / 100
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Paise: m.Paise + other.Paise}
}

// Money serializes as a bare number of paise. The persisted ledger slot
// carries no schema version, so the shape stays as small as possible.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Paise, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var paise int64
	if err := json.Unmarshal(data, &paise); err != nil {
		return err
	}
	m.Paise = paise
	return nil
}
