package handler

import (
	"fmt"

	"etfpanel"

	"github.com/gofiber/fiber/v2"
)

type CalendarHandler struct {
	w WindowResolver
}

func NewCalendarHandler(w WindowResolver) *CalendarHandler {
	return &CalendarHandler{
		w: w,
	}
}

func (h *CalendarHandler) InitRoute(app fiber.Router) {
	router := app.Group("/trading-days")
	router.Get("/previous", h.PreviousTradingDays)
}

// PreviousTradingDays returns the n trading days ending at or before date, date included.
func (h *CalendarHandler) PreviousTradingDays(c *fiber.Ctx) error {

	if c.Query("n") == "" {
		return fmt.Errorf("%w: n is required", etfpanel.ErrInvalidArgument)
	}
	n, err := countParam(c, "n", 0)
	if err != nil {
		return err
	}

	param := TradingDaysQuery{Date: c.Query("date"), N: n}
	if err := validCheck(&param); err != nil {
		return err
	}

	w, err := h.w.ResolveWindow(c.UserContext(), param.Date, param.N, true)
	if err != nil {
		return err
	}

	days := make([]string, len(w.Days))
	for i, d := range w.Days {
		days[i] = isoDate(d)
	}

	return respond(c, fiber.StatusOK, "trading days resolved", tradingDaysResp{
		StartDate:        isoDate(w.Start()),
		EndDate:          isoDate(w.End()),
		TradingDaysCount: len(days),
		TradingDays:      days,
		OriginalInput:    originalInput{Date: param.Date, N: param.N},
	})
}
