package derive

import (
	"reflect"
	"testing"

	"kharcha/internal/core"
)

func exp(id int64, title string, rupees int64, category string, date core.Date) core.Expense {
	return core.Expense{
		ID:       id,
		Title:    title,
		Amount:   core.Money{Paise: rupees * 100},
		Category: category,
		Date:     date,
	}
}

func sampleLedger() []core.Expense {
	return []core.Expense{
		exp(1, "Coffee", 150, "Food", core.NewDate(2024, 3, 5)),
		exp(2, "Bus", 50, "Travel", core.NewDate(2024, 3, 5)),
	}
}

func TestFilterAndSortCategory(t *testing.T) {
	ledger := sampleLedger()
	got := FilterAndSort(ledger, Params{Category: "Food"})
	if len(got) != 1 || got[0].Title != "Coffee" {
		t.Fatalf("expected only Coffee, got %+v", got)
	}
	if all := FilterAndSort(ledger, Params{Category: AllCategories}); len(all) != 2 {
		t.Fatalf("All should match everything, got %d", len(all))
	}
}

func TestFilterAndSortSearch(t *testing.T) {
	ledger := sampleLedger()
	got := FilterAndSort(ledger, Params{Search: "COFF"})
	if len(got) != 1 || got[0].Title != "Coffee" {
		t.Fatalf("case-insensitive substring search failed: %+v", got)
	}
	if got := FilterAndSort(ledger, Params{Search: "zzz"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
	// Fuzzy mode matches non-contiguous letters.
	if got := FilterAndSort(ledger, Params{Search: "cfe", Fuzzy: true}); len(got) != 1 {
		t.Fatalf("fuzzy search expected 1 match, got %d", len(got))
	}
}

func TestFilterAndSortStability(t *testing.T) {
	// Equal sort keys must keep ledger order.
	ledger := []core.Expense{
		exp(1, "first", 100, "Food", core.NewDate(2024, 3, 5)),
		exp(2, "second", 100, "Food", core.NewDate(2024, 3, 5)),
		exp(3, "third", 100, "Food", core.NewDate(2024, 3, 5)),
	}
	for _, key := range []SortKey{SortByDate, SortByAmount} {
		got := FilterAndSort(ledger, Params{Sort: key})
		for i, e := range got {
			if e.ID != int64(i+1) {
				t.Fatalf("sort %q not stable: %+v", key, got)
			}
		}
	}
}

func TestFilterAndSortOrdering(t *testing.T) {
	ledger := []core.Expense{
		exp(1, "old", 300, "Food", core.NewDate(2024, 1, 10)),
		exp(2, "new", 100, "Food", core.NewDate(2024, 3, 10)),
		exp(3, "mid", 200, "Food", core.NewDate(2024, 2, 10)),
	}
	byDate := FilterAndSort(ledger, Params{Sort: SortByDate})
	if byDate[0].Title != "new" || byDate[2].Title != "old" {
		t.Fatalf("date sort wrong: %+v", byDate)
	}
	byAmount := FilterAndSort(ledger, Params{Sort: SortByAmount})
	if byAmount[0].Title != "old" || byAmount[2].Title != "new" {
		t.Fatalf("amount sort wrong: %+v", byAmount)
	}
	// Input must be untouched.
	if ledger[0].Title != "old" || ledger[1].Title != "new" {
		t.Fatalf("input ledger mutated: %+v", ledger)
	}
}

func TestFilterAndSortIdempotent(t *testing.T) {
	ledger := sampleLedger()
	p := Params{Category: AllCategories, Sort: SortByAmount}
	once := FilterAndSort(ledger, p)
	twice := FilterAndSort(once, p)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %+v != %+v", once, twice)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total.Paise != 0 || s.Highest.Paise != 0 || s.Count != 0 {
		t.Fatalf("empty summary should be zeros, got %+v", s)
	}
}

func TestSummarizeScenario(t *testing.T) {
	s := Summarize(sampleLedger())
	if s.Total.Paise != 20000 {
		t.Fatalf("total = %d paise, want 20000", s.Total.Paise)
	}
	if s.Highest.Paise != 15000 {
		t.Fatalf("highest = %d paise, want 15000", s.Highest.Paise)
	}
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	got := CategoryBreakdown(sampleLedger())
	want := []CategoryAmount{
		{Category: "Food", Amount: core.Money{Paise: 15000}},
		{Category: "Travel", Amount: core.Money{Paise: 5000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("breakdown = %+v, want %+v", got, want)
	}
	if len(CategoryBreakdown(nil)) != 0 {
		t.Fatalf("empty input should yield empty breakdown")
	}
}

func TestCategoryBreakdownSumsToTotal(t *testing.T) {
	ledger := []core.Expense{
		exp(1, "a", 10, "Food", core.NewDate(2024, 3, 1)),
		exp(2, "b", 20, "Travel", core.NewDate(2024, 3, 2)),
		exp(3, "c", 30, "Food", core.NewDate(2024, 3, 3)),
		exp(4, "d", 40, "Shopping", core.NewDate(2024, 3, 4)),
	}
	var sum int64
	for _, g := range CategoryBreakdown(ledger) {
		sum += g.Amount.Paise
	}
	if total := Summarize(ledger).Total.Paise; sum != total {
		t.Fatalf("group sum %d != total %d", sum, total)
	}
}

func TestDailySeriesScenario(t *testing.T) {
	got := DailySeries(sampleLedger(), core.MonthKey{Year: 2024, Month: 3})
	if len(got) != 31 {
		t.Fatalf("march should have 31 entries, got %d", len(got))
	}
	for i, d := range got {
		if d.Day != i+1 {
			t.Fatalf("entry %d has day %d, want %d", i, d.Day, i+1)
		}
		want := int64(0)
		if d.Day == 5 {
			want = 200
		}
		if d.Amount != want {
			t.Fatalf("day %d amount = %d, want %d", d.Day, d.Amount, want)
		}
	}
}

func TestDailySeriesShape(t *testing.T) {
	cases := []struct {
		month core.MonthKey
		days  int
	}{
		{core.MonthKey{Year: 2024, Month: 2}, 29},
		{core.MonthKey{Year: 2025, Month: 2}, 28},
		{core.MonthKey{Year: 2024, Month: 4}, 30},
	}
	for _, tc := range cases {
		got := DailySeries(nil, tc.month)
		if len(got) != tc.days {
			t.Fatalf("%s expected %d entries, got %d", tc.month, tc.days, len(got))
		}
		for i, d := range got {
			if d.Day != i+1 || d.Amount != 0 {
				t.Fatalf("%s entry %d = %+v", tc.month, i, d)
			}
		}
	}
}

func TestDailySeriesIgnoresFilters(t *testing.T) {
	// The daily chart always derives from the full ledger, even though
	// the list and category chart honor the active filter.
	ledger := sampleLedger()
	filtered := FilterAndSort(ledger, Params{Category: "Food"})
	if len(filtered) != 1 {
		t.Fatalf("setup: filter should leave one record")
	}
	series := DailySeries(ledger, core.MonthKey{Year: 2024, Month: 3})
	if series[4].Amount != 200 {
		t.Fatalf("day 5 should sum both records (200), got %d", series[4].Amount)
	}
}

func TestAvailableMonths(t *testing.T) {
	ledger := []core.Expense{
		exp(1, "a", 10, "Food", core.NewDate(2024, 1, 5)),
		exp(2, "b", 10, "Food", core.NewDate(2024, 3, 5)),
		exp(3, "c", 10, "Food", core.NewDate(2024, 3, 9)),
		exp(4, "d", 10, "Food", core.NewDate(2023, 12, 1)),
	}
	got := AvailableMonths(ledger)
	want := []core.MonthKey{
		{Year: 2024, Month: 3},
		{Year: 2024, Month: 1},
		{Year: 2023, Month: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("months = %+v, want %+v", got, want)
	}
	if len(AvailableMonths(nil)) != 0 {
		t.Fatalf("empty ledger should yield no months")
	}
}
