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
	"github.com/iliyamo/school-help-desk/internal/repository"
	"github.com/iliyamo/school-help-desk/internal/utils"
)

// CommentHandler implements the comment endpoints nested under a ticket.
// Reading and creating comments requires access to the parent ticket;
// mutating a comment requires owning the comment itself, not the ticket.
type CommentHandler struct {
	Tickets  *repository.TicketRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(tickets *repository.TicketRepo, comments *repository.CommentRepo) *CommentHandler {
	if tickets == nil || comments == nil {
		panic("nil repository passed to NewCommentHandler")
	}
	return &CommentHandler{Tickets: tickets, Comments: comments}
}

type commentReq struct {
	Body string `json:"body"`
}

type commentResp struct {
	ID        uint64    `json:"id"`
	TicketID  uint64    `json:"ticket_id"`
	UserID    uint64    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResp(cm model.Comment) commentResp {
	return commentResp{ID: cm.ID, TicketID: cm.TicketID, UserID: cm.UserID, Body: cm.Body, CreatedAt: cm.CreatedAt}
}

// loadTicketForAccess fetches the parent ticket and runs the ownership
// policy for reads. The returned error, when non-nil, is already a rendered
// HTTP response.
func (h *CommentHandler) loadTicketForAccess(c echo.Context, ctx context.Context, claims utils.Claims) (model.Ticket, error) {
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return model.Ticket{}, echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}
	t, err := h.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Ticket{}, echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		return model.Ticket{}, echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if auth.Decide(claims.UserID, claims.Role, t.UserID, auth.ActionRead) != auth.Allow {
		return model.Ticket{}, echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return t, nil
}

// List handles GET /v1/tickets/:id/comments.
func (h *CommentHandler) List(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.loadTicketForAccess(c, ctx, claims)
	if err != nil {
		return err
	}

	comments, err := h.Comments.ListByTicket(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list comments failed"})
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResp(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/tickets/:id/comments. The caller becomes
// the comment's owner.
func (h *CommentHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.loadTicketForAccess(c, ctx, claims)
	if err != nil {
		return err
	}

	cm := &model.Comment{TicketID: t.ID, UserID: claims.UserID, Body: body}
	if err := h.Comments.Create(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, toCommentResp(*cm))
}

// GetByID handles GET /v1/tickets/:id/comments/:commentId.
func (h *CommentHandler) GetByID(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.loadTicketForAccess(c, ctx, claims)
	if err != nil {
		return err
	}

	cm, err := h.Comments.GetByID(ctx, t.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toCommentResp(cm))
}

// Update handles PUT /v1/tickets/:id/comments/:commentId. Ownership is
// per-comment: the ticket's owner cannot edit someone else's comment.
func (h *CommentHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, ticketID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if auth.Decide(claims.UserID, claims.Role, cm.UserID, auth.ActionUpdate) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Comments.UpdateBody(ctx, cm.ID, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	cm.Body = body
	return c.JSON(http.StatusOK, toCommentResp(cm))
}

// Delete handles DELETE /v1/tickets/:id/comments/:commentId.
func (h *CommentHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, ticketID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if auth.Decide(claims.UserID, claims.Role, cm.UserID, auth.ActionDelete) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Comments.Delete(ctx, cm.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
