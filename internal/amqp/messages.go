package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event operations.
const (
	OpAdded   = "added"
	OpRemoved = "removed"
)

// LedgerEvent announces a ledger mutation to external consumers. It
// carries only the record id and operation; a consumer that needs the
// full record reads the ledger itself.
type LedgerEvent struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(op string, id int64) LedgerEvent {
	return LedgerEvent{Op: op, ID: id, Timestamp: time.Now()}
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeLedgerEvent parses an event from its wire form.
func DecodeLedgerEvent(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	return e, nil
}
