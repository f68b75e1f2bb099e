package app

import (
	"fmt"
	"time"

	"etfpanel"
	"etfpanel/app/handler"
	"etfpanel/app/middleware"
	"etfpanel/internal/db"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	JwtKey       string
	JwtExpiry    time.Duration
	AllowOrigins string
	Production   bool
}

// New builds the HTTP surface. Every route lives under /api and only the calendar and
// auth endpoints are reachable without a bearer token.
func New(conf Config, agg *etfpanel.Aggregator, stg *db.Storage) *fiber.App {

	app := fiber.New(fiber.Config{
		AppName:               "etfpanel",
		DisableStartupMessage: conf.Production,
	})

	middleware.SetupMiddleware(app, middleware.Config{
		AllowOrigins: conf.AllowOrigins,
		Production:   conf.Production,
	})

	api := app.Group("/api")

	auth := handler.NewAuthHandler(stg, stg, conf.JwtKey, conf.JwtExpiry)
	auth.InitRoute(api)
	handler.NewCalendarHandler(agg).InitRoute(api)
	handler.NewEtfHandler(agg, agg, auth.AuthMiddleware).InitRoute(api)
	handler.NewCollectionHandler(stg, stg, auth.AuthMiddleware).InitRoute(api)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("route %s %s not found", c.Method(), c.Path()))
	})

	return app
}
