// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketOpenedEvent is published when a student opens a new help-desk
// ticket. It carries enough information for downstream consumers to log or
// notify staff without querying the primary database.
type TicketOpenedEvent struct {
	TicketID uint64 `json:"ticket_id"`
	UserID   uint64 `json:"user_id"`
	TypeID   uint64 `json:"type_id,omitempty"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	OpenedAt string `json:"opened_at"`
}
