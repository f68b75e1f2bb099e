package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"etfpanel"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := etfpanel.ParseDay(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	return v
}

// validCheck runs the struct tags and reports every failing field as an invalid argument.
func validCheck(param any) error {
	err := validate.Struct(param)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", etfpanel.ErrInvalidArgument, err.Error())
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return fmt.Errorf("%w: %s", etfpanel.ErrInvalidArgument, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "isodate":
		return fe.Field() + " must be in YYYY-MM-DD format"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min", "max", "gt":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func bodyParse(c *fiber.Ctx, param any) error {
	if err := c.BodyParser(param); err != nil {
		return fmt.Errorf("%w: malformed request body. %s", etfpanel.ErrInvalidArgument, err.Error())
	}
	return validCheck(param)
}

// countParam reads a positive integer query parameter, using def when it is absent.
func countParam(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", etfpanel.ErrInvalidArgument, key)
	}
	return n, nil
}
