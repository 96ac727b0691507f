package model

import "time"

// Comment represents a row in the `comments` table. Ownership is
// per-comment: mutating a comment requires the comment's own UserID to
// match the caller, not the parent ticket's owner.
//
// Fields:
//  ID        – primary key identifier.
//  TicketID  – parent ticket.
//  UserID    – author of the comment (owner).
//  Body      – comment text.
//  CreatedAt – timestamp of creation.
type Comment struct {
	ID        uint64    // comments.id
	TicketID  uint64    // comments.ticket_id
	UserID    uint64    // comments.user_id
	Body      string    // comments.body
	CreatedAt time.Time // comments.created_at
}
