package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/handler"
	"github.com/iliyamo/school-help-desk/internal/middleware"
	"github.com/iliyamo/school-help-desk/internal/model"
)

// RegisterUsers wires the admin-only user management endpoints.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/users")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.PUT("/:id", u.Update)
	g.DELETE("/:id", u.Delete)
}

// RegisterTicketTypes wires the ticket taxonomy. Reads are public so the
// registration form can show the list without a session; the optional
// cache middleware (Redis) sits only on those reads. Writes are admin-only.
func RegisterTicketTypes(e *echo.Echo, tt *handler.TicketTypeHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/ticket-types", tt.List, cache)
		e.GET("/v1/ticket-types/:id", tt.GetByID, cache)
	} else {
		e.GET("/v1/ticket-types", tt.List)
		e.GET("/v1/ticket-types/:id", tt.GetByID)
	}

	g := e.Group("/v1/ticket-types")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.POST("", tt.Create)
	g.PUT("/:id", tt.Update)
	g.DELETE("/:id", tt.Delete)
}
