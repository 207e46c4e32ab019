// Package derive contains the pure view-derivation pipeline: filtering,
// sorting, summarizing and chart-series aggregation over a ledger
// snapshot. Every function recomputes from scratch and never mutates
// its input, so callers can rerun them freely after any change.
package derive

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"kharcha/internal/core"
)

// AllCategories is the filter value that matches every record.
const AllCategories = "All"

// SortKey selects the ordering of the filtered list.
type SortKey string

const (
	SortByDate   SortKey = "date"   // newest first
	SortByAmount SortKey = "amount" // largest first
)

// Params are the ephemeral view parameters. They are never persisted.
type Params struct {
	Category string
	Search   string
	Fuzzy    bool
	Sort     SortKey
}

// Summary holds the scalar aggregates over a filtered list.
type Summary struct {
	Total   core.Money `json:"total"`
	Highest core.Money `json:"highest"`
	Count   int        `json:"count"`
}

// CategoryAmount is a per-category sum, in first-seen order.
type CategoryAmount struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

// DayAmount is one day's whole-rupee bucket in a month series.
type DayAmount struct {
	Day    int   `json:"day"`
	Amount int64 `json:"amount"`
}

// FilterAndSort applies the category filter, title search and sort to a
// ledger snapshot and returns a new slice. Filtering runs before
// sorting, and both sorts are stable: records with equal keys keep the
// relative order they had in the ledger.
func FilterAndSort(ledger []core.Expense, p Params) []core.Expense {
	out := make([]core.Expense, 0, len(ledger))
	search := strings.ToLower(strings.TrimSpace(p.Search))
	for _, e := range ledger {
		if p.Category != "" && p.Category != AllCategories && e.Category != p.Category {
			continue
		}
		if search != "" && !titleMatches(e.Title, search, p.Fuzzy) {
			continue
		}
		out = append(out, e)
	}

	switch p.Sort {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.Paise > out[j].Amount.Paise
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date.Time)
		})
	}
	return out
}

func titleMatches(title, search string, useFuzzy bool) bool {
	if useFuzzy {
		return fuzzy.MatchFold(search, title)
	}
	return strings.Contains(strings.ToLower(title), search)
}

// Summarize computes total, highest and count over a filtered list.
// An empty list yields all zeros; that is a defined result, not an error.
func Summarize(filtered []core.Expense) Summary {
	var s Summary
	for _, e := range filtered {
		s.Total = s.Total.Add(e.Amount)
		if e.Amount.Paise > s.Highest.Paise {
			s.Highest = e.Amount
		}
		s.Count++
	}
	return s
}

// CategoryBreakdown groups a filtered list by category, preserving the
// order categories first appear in. Group sums always add up to
// Summarize(filtered).Total.
func CategoryBreakdown(filtered []core.Expense) []CategoryAmount {
	index := make(map[string]int)
	out := make([]CategoryAmount, 0)
	for _, e := range filtered {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryAmount{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// DailySeries buckets the full ledger into per-day whole-rupee sums for
// one month. Every calendar day of the month appears, in ascending
// order, zero-filled when nothing was spent.
//
// The series deliberately derives from the full ledger rather than the
// filtered view: the daily chart ignores the active category filter and
// search while the list and category chart honor them.
func DailySeries(ledger []core.Expense, month core.MonthKey) []DayAmount {
	days := month.Days()
	buckets := make([]core.Money, days+1)
	for _, e := range ledger {
		if month.Contains(e.Date) {
			day := e.Date.Day()
			buckets[day] = buckets[day].Add(e.Amount)
		}
	}
	out := make([]DayAmount, days)
	for day := 1; day <= days; day++ {
		out[day-1] = DayAmount{Day: day, Amount: buckets[day].RoundRupees()}
	}
	return out
}

// AvailableMonths returns the distinct months present in the ledger,
// most recent first. The first entry is the default chart selection.
func AvailableMonths(ledger []core.Expense) []core.MonthKey {
	seen := make(map[core.MonthKey]struct{})
	out := make([]core.MonthKey, 0)
	for _, e := range ledger {
		k := core.MonthKeyOf(e.Date)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].Before(out[i])
	})
	return out
}
