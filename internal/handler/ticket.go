package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/auth"
	"github.com/iliyamo/school-help-desk/internal/model"
	"github.com/iliyamo/school-help-desk/internal/queue"
	"github.com/iliyamo/school-help-desk/internal/repository"
	queue_publisher "github.com/iliyamo/school-help-desk/internal/service"
)

// TicketHandler implements the ticket CRUD endpoints. Every operation runs
// the shared ownership policy against the ticket's owner before touching
// the row.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(tickets *repository.TicketRepo) *TicketHandler {
	if tickets == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets}
}

type createTicketReq struct {
	TypeID      uint64 `json:"type_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Pointer fields distinguish "omitted" from "set to empty/zero" so a
// student sending only a title does not trip the admin-only checks.
type updateTicketReq struct {
	TypeID      *uint64 `json:"type_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type ticketResp struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	TypeID      uint64 `json:"type_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func toTicketResp(t model.Ticket) ticketResp {
	return ticketResp{ID: t.ID, UserID: t.UserID, TypeID: t.TypeID, Title: t.Title, Description: t.Description, Status: t.Status}
}

// Create handles POST /v1/tickets. The caller becomes the owner and the
// status always starts as Open. A ticket.opened event is published
// best-effort; broker failures never fail the request.
func (h *TicketHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	t := &model.Ticket{
		UserID:      claims.UserID,
		TypeID:      req.TypeID,
		Title:       title,
		Description: req.Description,
		Status:      model.TicketStatusOpen,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}

	_ = queue_publisher.PublishTicketOpened(ctx, queue.TicketOpenedEvent{
		TicketID: t.ID,
		UserID:   t.UserID,
		TypeID:   t.TypeID,
		Title:    t.Title,
		Status:   t.Status,
		OpenedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toTicketResp(*t))
}

// List handles GET /v1/tickets. Admins see everything; students only their
// own tickets.
func (h *TicketHandler) List(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		tickets []model.Ticket
		lerr    error
	)
	if claims.Role == model.RoleAdmin {
		tickets, lerr = h.Tickets.ListAll(ctx)
	} else {
		tickets, lerr = h.Tickets.ListByUser(ctx, claims.UserID)
	}
	if lerr != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tickets failed"})
	}

	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /v1/tickets/:id. A ticket that exists but belongs to
// someone else answers 403, not 404.
func (h *TicketHandler) GetByID(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if auth.Decide(claims.UserID, claims.Role, t.UserID, auth.ActionRead) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// Update handles PUT /v1/tickets/:id. Owners may edit title and
// description; status and type changes are admin-only.
func (h *TicketHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if auth.Decide(claims.UserID, claims.Role, t.UserID, auth.ActionUpdate) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		if !auth.CanModerateTicket(claims.Role) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins may change status"})
		}
		if !model.ValidTicketStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		t.Status = *req.Status
	}
	if req.TypeID != nil {
		if !auth.CanModerateTicket(claims.Role) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins may change type"})
		}
		t.TypeID = *req.TypeID
	}

	if err := h.Tickets.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// Delete handles DELETE /v1/tickets/:id. Owner or admin only; comments go
// with the ticket via FK cascade.
func (h *TicketHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if auth.Decide(claims.UserID, claims.Role, t.UserID, auth.ActionDelete) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Tickets.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
