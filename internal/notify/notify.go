// Package notify defines the notification port the settlement recorder
// and expense service emit events through. The transport behind the port
// is the consumer's choice: the log notifier is always wired, and the hub
// fans events out to in-process subscribers (the SSE endpoint).
//
// The port is injected explicitly into every consumer; there is no
// module-level singleton.
package notify

import (
	"log/slog"
	"time"
)

// Event names emitted by the services.
const (
	EventExpenseCreated    = "expense.created"
	EventExpenseUpdated    = "expense.updated"
	EventExpenseDeleted    = "expense.deleted"
	EventSettlementCreated = "settlement.created"
	EventSettlementDeleted = "settlement.deleted"
)

// Event is a notification delivered to group listeners.
type Event struct {
	Name    string `json:"event"`
	GroupID string `json:"groupId"`
	Payload any    `json:"payload"`
	At      int64  `json:"at"`
}

// Notifier is the port consumers emit events through. Implementations
// must not block: delivery is best-effort and asynchronous with respect
// to the ledger write that triggered it.
type Notifier interface {
	Emit(name, groupID string, payload any)
}

// LogNotifier writes every event to the structured log. Useful on its
// own in development and as a durable trace alongside the hub.
type LogNotifier struct{}

// Emit logs the event.
func (LogNotifier) Emit(name, groupID string, payload any) {
	slog.Info("Event emitted", "event", name, "group_id", groupID, "payload", payload)
}

// Multi fans a single Emit out to several notifiers.
type Multi []Notifier

// Emit forwards the event to every wrapped notifier.
func (m Multi) Emit(name, groupID string, payload any) {
	for _, n := range m {
		n.Emit(name, groupID, payload)
	}
}

func newEvent(name, groupID string, payload any) Event {
	return Event{Name: name, GroupID: groupID, Payload: payload, At: time.Now().Unix()}
}
