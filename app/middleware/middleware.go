package middleware

import (
	"errors"
	"fmt"
	"time"

	"etfpanel"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AllowOrigins string
	// Production hides the message of 5xx errors from clients.
	Production bool
}

// Envelope wraps every response body.
type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// DataCarrier is implemented by errors that still have a payload to return.
type DataCarrier interface {
	Data() any
}

func SetupMiddleware(router fiber.Router, conf Config) {

	router.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	router.Use(logRequest)
	router.Use(responseTime)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: conf.AllowOrigins != "*",
	}))
	router.Use(errorHandle(conf.Production))
	// innermost, so a recovered panic reaches errorHandle as a plain error
	router.Use(recover.New(recover.Config{EnableStackTrace: !conf.Production}))
}

func errorHandle(production bool) fiber.Handler {
	return func(c *fiber.Ctx) error {

		err := c.Next()
		if err == nil {
			return nil
		}

		code := StatusOf(err)
		message := err.Error()
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Interface("request_id", c.Locals("requestid")).Msg("Error in middleware")
			if production {
				message = "internal server error"
			}
		} else {
			log.Warn().Err(err).Str("path", c.Path()).Int("status", code).Msg("Request rejected")
		}

		env := Envelope{Status: "error", Code: code, Message: message}
		var dc DataCarrier
		if errors.As(err, &dc) {
			env.Data = dc.Data()
		}
		return c.Status(code).JSON(env)
	}
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, etfpanel.ErrInvalidArgument), errors.Is(err, etfpanel.ErrDivisionGuard):
		return fiber.StatusBadRequest
	case errors.Is(err, etfpanel.ErrNotFound), errors.Is(err, etfpanel.ErrInsufficientData):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func responseTime(c *fiber.Ctx) error {
	began := time.Now()
	err := c.Next()
	c.Set("X-Response-Time", fmt.Sprintf("%dms", time.Since(began).Milliseconds()))
	return err
}

func logRequest(c *fiber.Ctx) error {
	began := time.Now()
	err := c.Next()

	log.Info().
		Str("method", c.Method()).
		Str("endpoint", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(began)).
		Interface("request_id", c.Locals("requestid")).
		Msg("Request endpoint")
	return err
}
