package handler

import (
	"etfpanel/app/middleware"

	"github.com/gofiber/fiber/v2"
)

func respond(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(middleware.Envelope{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func statusOf(err error) int {
	return middleware.StatusOf(err)
}

// dataError keeps a payload attached to an error so the error envelope can still carry it.
type dataError struct {
	err  error
	data any
}

func (e dataError) Error() string {
	return e.err.Error()
}

func (e dataError) Unwrap() error {
	return e.err
}

func (e dataError) Data() any {
	return e.data
}
