package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/handler"
	"github.com/iliyamo/school-help-desk/internal/middleware"
	"github.com/iliyamo/school-help-desk/internal/model"
)

// RegisterTickets wires the ticket and nested comment endpoints. All of
// them require a valid access token; per-row ownership is enforced inside
// the handlers through the shared policy.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, cm *handler.CommentHandler, jwtSecret string) {
	g := e.Group("/v1/tickets")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleStudent, model.RoleAdmin))

	g.POST("", t.Create)
	g.GET("", t.List)
	g.GET("/:id", t.GetByID)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)

	g.GET("/:id/comments", cm.List)
	g.POST("/:id/comments", cm.Create)
	g.GET("/:id/comments/:commentId", cm.GetByID)
	g.PUT("/:id/comments/:commentId", cm.Update)
	g.DELETE("/:id/comments/:commentId", cm.Delete)
}
