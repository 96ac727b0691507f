package model

// TicketType is an admin-managed classification for tickets
// (`ticket_types` table).
type TicketType struct {
	ID          uint64 // ticket_types.id
	Name        string // ticket_types.name (unique)
	Description string // ticket_types.description
}
