package model

// Ticket statuses move Open -> Pending -> Closed; only admins may change
// the status field.
const (
	TicketStatusOpen    = "Open"
	TicketStatusPending = "Pending"
	TicketStatusClosed  = "Closed"
)

// Ticket represents a help-desk request in the `tickets` table.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – student who opened the ticket (owner).
//  TypeID      – optional classification (FK into ticket_types; 0 = unset).
//  Title       – short summary.
//  Description – free-form problem description.
//  Status      – Open, Pending or Closed.
type Ticket struct {
	ID          uint64 // tickets.id
	UserID      uint64 // tickets.user_id
	TypeID      uint64 // tickets.type_id (0 when unclassified)
	Title       string // tickets.title
	Description string // tickets.description
	Status      string // tickets.status
}

// ValidTicketStatus reports whether s is one of the known statuses.
func ValidTicketStatus(s string) bool {
	return s == TicketStatusOpen || s == TicketStatusPending || s == TicketStatusClosed
}
