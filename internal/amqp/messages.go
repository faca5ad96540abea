package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried on the wire.
const (
	OpAdded   = "added"
	OpEdited  = "edited"
	OpDeleted = "deleted"
)

// ExpenseChangeMessage describes one accepted expense transition. The
// server publishes it after the reducer has applied the change; the
// worker appends it to the SQLite journal. Deleted expenses carry only
// the id.
type ExpenseChangeMessage struct {
	Op        string    `json:"op"`
	ExpenseID string    `json:"expense_id"`
	Amount    float64   `json:"amount,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Category  string    `json:"category,omitempty"`
	DateISO   string    `json:"date_iso,omitempty"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseChangeMessage stamps the message with the current time.
func NewExpenseChangeMessage(op, expenseID string) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		Op:        op,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangeMessageFromJSON creates a message from JSON bytes.
func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var msg ExpenseChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
