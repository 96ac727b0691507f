package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/model"
	"github.com/iliyamo/school-help-desk/internal/repository"
)

// TicketTypeHandler serves the ticket taxonomy. Reads are public (and
// response-cached); writes are admin-only via router middleware.
type TicketTypeHandler struct {
	Types *repository.TicketTypeRepo
}

func NewTicketTypeHandler(types *repository.TicketTypeRepo) *TicketTypeHandler {
	if types == nil {
		panic("nil repository passed to NewTicketTypeHandler")
	}
	return &TicketTypeHandler{Types: types}
}

type ticketTypeReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /v1/ticket-types.
func (h *TicketTypeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	types, err := h.Types.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list types failed"})
	}
	return c.JSON(http.StatusOK, types)
}

// GetByID handles GET /v1/ticket-types/:id.
func (h *TicketTypeHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt, err := h.Types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, tt)
}

// Create handles POST /v1/ticket-types (admin).
func (h *TicketTypeHandler) Create(c echo.Context) error {
	var req ticketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt := &model.TicketType{Name: name, Description: req.Description}
	if err := h.Types.Create(ctx, tt); err != nil {
		if errors.Is(err, repository.ErrTypeNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "type name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create type failed"})
	}
	return c.JSON(http.StatusCreated, tt)
}

// Update handles PUT /v1/ticket-types/:id (admin).
func (h *TicketTypeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Types.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	tt := model.TicketType{ID: id, Name: name, Description: req.Description}
	if err := h.Types.Update(ctx, tt); err != nil {
		if errors.Is(err, repository.ErrTypeNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "type name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, tt)
}

// Delete handles DELETE /v1/ticket-types/:id (admin). Tickets referencing
// the type fall back to NULL via FK ON DELETE SET NULL.
func (h *TicketTypeHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Types.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
