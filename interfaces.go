package etfpanel

import (
	"context"
	m "etfpanel/internal/model"
	"time"
)

type calendarStore interface {
	// CalendarDay returns nil when the day is absent from the calendar.
	CalendarDay(ctx context.Context, day time.Time) (*m.CalendarDay, error)
	// PreviousTradingDay returns the latest trading day strictly before the given day, or nil.
	PreviousTradingDay(ctx context.Context, before time.Time) (*m.CalendarDay, error)
	// TradingDays returns up to count trading days at or before end, most recent first.
	TradingDays(ctx context.Context, end time.Time, count int) ([]m.CalendarDay, error)
}

type marketStore interface {
	// InstrumentsBySectors returns every instrument when sectors is empty.
	InstrumentsBySectors(ctx context.Context, sectors []string) ([]m.EtfInfo, error)
	InstrumentsByCodes(ctx context.Context, codes []string) ([]m.EtfInfo, error)
	Navs(ctx context.Context, codes []string, days []time.Time) ([]m.EtfNetAsset, error)
}

type categoryStore interface {
	CategoriesByNames(ctx context.Context, names []string) ([]m.Category, error)
	ActiveCategories(ctx context.Context) ([]m.Category, error)
	RefreshCategoryCounts(ctx context.Context) (int64, error)
}

type Storage interface {
	calendarStore
	marketStore
	categoryStore
}

type cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
