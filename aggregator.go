package etfpanel

import (
	"os"
	"slices"
	"strings"
	"time"

	m "etfpanel/internal/model"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultCatalogTTL = 10 * time.Minute
	TracerName        = "etfpanel"
)

// Aggregator answers trading-window and sector return queries over the calendar and NAV tables.
// It never writes, except for the category counter refresh.
type Aggregator struct {
	cal        calendarStore
	market     marketStore
	categories categoryStore
	cache      cache
	catalogTTL time.Duration
	tracer     trace.Tracer
	lg         zerolog.Logger
}

type AggregatorConfig struct {
	Storage Storage
	// Cache is optional. A nil cache disables catalog caching.
	Cache      cache
	CatalogTTL time.Duration
	// TracerProvider defaults to the global otel provider.
	TracerProvider trace.TracerProvider
}

func NewAggregator(conf AggregatorConfig) *Aggregator {
	ttl := conf.CatalogTTL
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	tp := conf.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Aggregator{
		cal:        conf.Storage,
		market:     conf.Storage,
		categories: conf.Storage,
		cache:      conf.Cache,
		catalogTTL: ttl,
		tracer:     tp.Tracer(TracerName),
		lg:         zerolog.New(os.Stdout).With().Str("Module", "Aggregator").Timestamp().Logger(),
	}
}

// normalizeLabels trims, drops blanks and removes duplicates, keeping first-seen order.
func normalizeLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SplitSectors parses a comma separated sector list.
func SplitSectors(raw string) []string {
	return normalizeLabels(strings.Split(raw, ","))
}

func codesOf(members []m.EtfInfo) []string {
	codes := make([]string, len(members))
	for i, etf := range members {
		codes[i] = etf.ThsCode
	}
	return codes
}

// groupBySector partitions instruments by sector label, each group ordered by code.
func groupBySector(members []m.EtfInfo) map[string][]m.EtfInfo {
	groups := make(map[string][]m.EtfInfo)
	for _, etf := range members {
		groups[etf.Sector] = append(groups[etf.Sector], etf)
	}
	for _, g := range groups {
		sortByCode(g)
	}
	return groups
}

func sortByCode(members []m.EtfInfo) {
	slices.SortFunc(members, func(a, b m.EtfInfo) int {
		return strings.Compare(a.ThsCode, b.ThsCode)
	})
}

func categoriesByName(cats []m.Category) map[string]*m.Category {
	byName := make(map[string]*m.Category, len(cats))
	for i := range cats {
		byName[cats[i].Name] = &cats[i]
	}
	return byName
}
