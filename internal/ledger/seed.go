package ledger

import (
	_ "embed"
	"encoding/json"

	"kharcha/internal/core"
)

//go:embed default_expenses.json
var defaultDataset []byte

// DefaultExpenses returns a fresh copy of the bundled default dataset,
// used whenever the durable slot is empty or unreadable.
func DefaultExpenses() []core.Expense {
	var out []core.Expense
	if err := json.Unmarshal(defaultDataset, &out); err != nil {
		// The dataset is a compile-time asset; an unparsable one is a
		// build defect, not a runtime condition.
		panic("ledger: embedded default dataset is invalid: " + err.Error())
	}
	return out
}
