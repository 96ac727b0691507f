package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/school-help-desk/internal/model"
)

type TicketTypeRepo struct{ DB *sql.DB }

func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{DB: db} }

var ErrTypeNameExists = errors.New("ticket type name already exists")

// Create inserts a ticket type and fills in its ID.
func (r *TicketTypeRepo) Create(ctx context.Context, tt *model.TicketType) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ticket_types (name, description) VALUES (?,?)",
		tt.Name, tt.Description)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrTypeNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tt.ID = uint64(id)
	return nil
}

// GetByID fetches a ticket type by id.
func (r *TicketTypeRepo) GetByID(ctx context.Context, id uint64) (model.TicketType, error) {
	var tt model.TicketType
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM ticket_types WHERE id=? LIMIT 1",
		id).Scan(&tt.ID, &tt.Name, &tt.Description)
	if err == sql.ErrNoRows {
		return model.TicketType{}, ErrNotFound
	}
	return tt, err
}

// ListAll returns every ticket type ordered by name.
func (r *TicketTypeRepo) ListAll(ctx context.Context) ([]model.TicketType, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description FROM ticket_types ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TicketType{}
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Description); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

// Update writes name and description.
func (r *TicketTypeRepo) Update(ctx context.Context, tt model.TicketType) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE ticket_types SET name=?, description=? WHERE id=?",
		tt.Name, tt.Description, tt.ID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrTypeNameExists
	}
	return err
}

// Delete removes a ticket type. Tickets referencing it keep a NULL type
// (FK ON DELETE SET NULL).
func (r *TicketTypeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM ticket_types WHERE id=?", id)
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
