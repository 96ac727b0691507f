package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-help-desk/internal/model"
)

type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// Create inserts a ticket and fills in its ID. A zero TypeID is stored as
// NULL so the FK to ticket_types is not violated.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (user_id, type_id, title, description, status) VALUES (?,?,?,?,?)",
		t.UserID, nullableID(t.TypeID), t.Title, t.Description, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a ticket by id.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	var (
		t      model.Ticket
		typeID sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,type_id,title,description,status FROM tickets WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.UserID, &typeID, &t.Title, &t.Description, &t.Status)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	if typeID.Valid {
		t.TypeID = uint64(typeID.Int64)
	}
	return t, nil
}

// ListAll returns every ticket, newest first. Admin-only at the handler
// layer.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT id,user_id,type_id,title,description,status FROM tickets ORDER BY id DESC")
}

// ListByUser returns the tickets owned by one user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT id,user_id,type_id,title,description,status FROM tickets WHERE user_id=? ORDER BY id DESC",
		userID)
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		var (
			t      model.Ticket
			typeID sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &typeID, &t.Title, &t.Description, &t.Status); err != nil {
			return nil, err
		}
		if typeID.Valid {
			t.TypeID = uint64(typeID.Int64)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update writes the mutable ticket columns.
func (r *TicketRepo) Update(ctx context.Context, t model.Ticket) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET type_id=?, title=?, description=?, status=? WHERE id=?",
		nullableID(t.TypeID), t.Title, t.Description, t.Status, t.ID)
	return err
}

// Delete removes a ticket; comments cascade via FK.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
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

func nullableID(id uint64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}
