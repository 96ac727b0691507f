package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-help-desk/internal/auth"
	"github.com/iliyamo/school-help-desk/internal/config"
	"github.com/iliyamo/school-help-desk/internal/database"
	"github.com/iliyamo/school-help-desk/internal/handler"
	"github.com/iliyamo/school-help-desk/internal/middleware"
	"github.com/iliyamo/school-help-desk/internal/queue"
	"github.com/iliyamo/school-help-desk/internal/repository"
	"github.com/iliyamo/school-help-desk/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tickets := repository.NewTicketRepo(db)
	comments := repository.NewCommentRepo(db)
	types := repository.NewTicketTypeRepo(db)

	svc := auth.NewService(users, tokens, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)

	// Redis is optional: rate limiting and response caching degrade to
	// no-ops when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Background consumer writing ticket.opened events to logs/tickets.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(svc), cfg.JWTSecret, limiter)
	router.RegisterTickets(e, handler.NewTicketHandler(tickets), handler.NewCommentHandler(tickets, comments), cfg.JWTSecret)
	router.RegisterUsers(e, handler.NewUserHandler(svc), cfg.JWTSecret)
	router.RegisterTicketTypes(e, handler.NewTicketTypeHandler(types), cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
