package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-help-desk/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and fills in its ID.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (ticket_id, user_id, body) VALUES (?,?,?)",
		cm.TicketID, cm.UserID, cm.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return nil
}

// GetByID fetches a comment scoped to its parent ticket, matching the
// nested route shape.
func (r *CommentRepo) GetByID(ctx context.Context, ticketID, id uint64) (model.Comment, error) {
	var cm model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,ticket_id,user_id,body,created_at FROM comments WHERE id=? AND ticket_id=? LIMIT 1",
		id, ticketID).Scan(&cm.ID, &cm.TicketID, &cm.UserID, &cm.Body, &cm.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrNotFound
	}
	return cm, err
}

// ListByTicket returns all comments on a ticket, oldest first.
func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,ticket_id,user_id,body,created_at FROM comments WHERE ticket_id=? ORDER BY id ASC",
		ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.TicketID, &cm.UserID, &cm.Body, &cm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// UpdateBody replaces a comment's text.
func (r *CommentRepo) UpdateBody(ctx context.Context, id uint64, body string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE comments SET body=? WHERE id=?", body, id)
	return err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
