package etfpanel

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"time"

	m "etfpanel/internal/model"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDay accepts only YYYY-MM-DD strings naming a real calendar date.
func ParseDay(s string) (time.Time, error) {
	if !isoDate.MatchString(s) {
		return time.Time{}, invalidf("date %q must be in YYYY-MM-DD format", s)
	}
	d, err := time.Parse(m.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidf("date %q is not a valid calendar date", s)
	}
	return d, nil
}

// MaxWindowDays caps n; roughly twenty years of trading days.
const MaxWindowDays = 5000

// Window is an ascending run of trading days ending on Anchor.
type Window struct {
	// Requested is the date the caller asked for.
	Requested time.Time
	// Anchor is Requested, or the nearest earlier trading day when Requested is not one.
	Anchor time.Time
	Days   []time.Time
}

func (w Window) Start() time.Time {
	return w.Days[0]
}

func (w Window) End() time.Time {
	return w.Days[len(w.Days)-1]
}

// Pairs is the number of consecutive day pairs in the window.
func (w Window) Pairs() int {
	return len(w.Days) - 1
}

// ResolveWindow collects trading days ending at or before date. An inclusive window holds count
// days; an exclusive one holds count+1 so that it yields count day pairs.
func (a *Aggregator) ResolveWindow(ctx context.Context, date string, count int, inclusive bool) (*Window, error) {
	requested, err := ParseDay(date)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, invalidf("n must be a positive integer, got %d", count)
	}
	if count > MaxWindowDays {
		return nil, invalidf("n must not exceed %d, got %d", MaxWindowDays, count)
	}

	anchor, err := a.resolveAnchor(ctx, requested)
	if err != nil {
		return nil, err
	}

	need := count
	if !inclusive {
		need++
	}

	rows, err := a.cal.TradingDays(ctx, anchor, need)
	if err != nil {
		return nil, fmt.Errorf("TradingDays 조회 오류. %w", err)
	}
	if len(rows) < need {
		return nil, fmt.Errorf("%w: required %d, found %d", ErrInsufficientData, need, len(rows))
	}

	days := make([]time.Time, 0, need)
	for _, row := range rows[:need] {
		d, err := row.Date()
		if err != nil {
			return nil, fmt.Errorf("malformed calendar day %q. %w", row.Day, err)
		}
		days = append(days, d)
	}
	slices.SortFunc(days, func(x, y time.Time) int { return x.Compare(y) })

	a.lg.Debug().Str("requested", date).Time("anchor", anchor).Int("days", len(days)).Msg("window resolved")
	return &Window{Requested: requested, Anchor: anchor, Days: days}, nil
}

// resolveAnchor never moves past requested: a non-trading day falls back to the previous trading day.
func (a *Aggregator) resolveAnchor(ctx context.Context, requested time.Time) (time.Time, error) {
	day, err := a.cal.CalendarDay(ctx, requested)
	if err != nil {
		return time.Time{}, fmt.Errorf("CalendarDay 조회 오류. %w", err)
	}
	if day == nil {
		return time.Time{}, notFoundf("date %s not in calendar", requested.Format(m.DateLayout))
	}
	if day.Trading() {
		return requested, nil
	}

	prev, err := a.cal.PreviousTradingDay(ctx, requested)
	if err != nil {
		return time.Time{}, fmt.Errorf("PreviousTradingDay 조회 오류. %w", err)
	}
	if prev == nil {
		return time.Time{}, notFoundf("no trading day before %s", requested.Format(m.DateLayout))
	}

	anchor, err := prev.Date()
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed calendar day %q. %w", prev.Day, err)
	}
	return anchor, nil
}
