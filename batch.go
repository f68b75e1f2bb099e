package etfpanel

import (
	"context"
	"fmt"
	"time"

	m "etfpanel/internal/model"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type BatchQuery struct {
	// Sectors is trimmed and deduplicated before use.
	Sectors []string
	Date    string
	Count   int
	Details bool
}

// BatchHistory holds one SectorHistory per requested sector, all sharing Window.
// Stages and Elapsed are filled even when the batch fails.
type BatchHistory struct {
	Window  *Window
	Sectors []string
	Results map[string]*SectorHistory
	Stages  []StageTiming
	Elapsed time.Duration
}

// BatchSectorHistory computes SectorHistory for many sectors with one calendar resolution,
// one membership query and one NAV query. Only a failed window resolution fails the batch;
// a sector without instruments is reported inside its own result.
func (a *Aggregator) BatchSectorHistory(ctx context.Context, q BatchQuery) (*BatchHistory, error) {
	began := time.Now()
	sectors := normalizeLabels(q.Sectors)
	out := &BatchHistory{Sectors: sectors}
	rec := &stageRecorder{tracer: a.tracer}
	defer func() {
		out.Stages = rec.stages
		out.Elapsed = time.Since(began)
	}()

	if len(sectors) == 0 {
		return out, invalidf("sectors must contain at least one sector")
	}

	ctx, span := a.tracer.Start(ctx, "sectors.batch", trace.WithAttributes(
		attribute.Int("sectors", len(sectors)),
		attribute.Int("n", q.Count),
	))
	defer span.End()

	err := rec.run(ctx, StageCalendar, func(ctx context.Context) (err error) {
		out.Window, err = a.ResolveWindow(ctx, q.Date, q.Count, false)
		return err
	})
	if err != nil {
		return out, err
	}

	var groups map[string][]m.EtfInfo
	var cats map[string]*m.Category
	err = rec.run(ctx, StageMembership, func(ctx context.Context) error {
		members, err := a.market.InstrumentsBySectors(ctx, sectors)
		if err != nil {
			return fmt.Errorf("InstrumentsBySectors 조회 오류. %w", err)
		}
		groups = groupBySector(members)

		rows, err := a.categories.CategoriesByNames(ctx, sectors)
		if err != nil {
			return fmt.Errorf("CategoriesByNames 조회 오류. %w", err)
		}
		cats = categoriesByName(rows)
		return nil
	})
	if err != nil {
		return out, err
	}

	idx := navIndex{}
	err = rec.run(ctx, StageNav, func(ctx context.Context) error {
		var codes []string
		for _, s := range sectors {
			codes = append(codes, codesOf(groups[s])...)
		}
		if len(codes) == 0 {
			return nil
		}
		navs, err := a.market.Navs(ctx, codes, out.Window.Days)
		if err != nil {
			return fmt.Errorf("Navs 조회 오류. %w", err)
		}
		idx = newNavIndex(navs)
		return nil
	})
	if err != nil {
		return out, err
	}

	err = rec.run(ctx, StageCalculation, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.Results = make(map[string]*SectorHistory, len(sectors))
		for _, s := range sectors {
			out.Results[s] = sectorHistory(s, cats[s], groups[s], out.Window, idx, q.Details)
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	a.lg.Info().Strs("sectors", sectors).Str("date", q.Date).Int("n", q.Count).Msg("batch sector history computed")
	return out, nil
}
