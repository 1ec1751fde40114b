package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// LedgerChangedMessage announces that a mutation reached the store. It carries
// no records; consumers reload the ledger from the store themselves.
type LedgerChangedMessage struct {
	Op        string       `json:"op"`
	Revision  int64        `json:"revision"`
	Counts    LedgerCounts `json:"counts"`
	Timestamp time.Time    `json:"timestamp"`
}

type LedgerCounts struct {
	Transactions int    `json:"transactions"`
	Emis         int    `json:"emis"`
	Categories   int    `json:"categories"`
	Recurring    int    `json:"recurring"`
	NetWorth     int    `json:"netEntries"`
	MonthlyGoal  string `json:"monthlyGoal,omitempty"`
}

// NewLedgerChangedMessage creates a message stamped with the current time.
func NewLedgerChangedMessage(op string, revision int64, counts core.Counts) *LedgerChangedMessage {
	lc := LedgerCounts{
		Transactions: counts.Transactions,
		Emis:         counts.Emis,
		Categories:   counts.Categories,
		Recurring:    counts.Recurring,
		NetWorth:     counts.NetWorth,
	}
	if counts.Goal != nil {
		lc.MonthlyGoal = counts.Goal.String()
	}
	return &LedgerChangedMessage{
		Op:        op,
		Revision:  revision,
		Counts:    lc,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
