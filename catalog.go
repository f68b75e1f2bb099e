package etfpanel

import (
	"context"
	"fmt"

	m "etfpanel/internal/model"
)

const catalogCacheKey = "etfpanel:sectors:available"

// AvailableSectors lists active categories by sort order. Member counts come from the
// stored counter and are not recomputed here.
func (a *Aggregator) AvailableSectors(ctx context.Context) ([]m.Category, error) {
	if a.cache != nil {
		var cached []m.Category
		hit, err := a.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err != nil {
			a.lg.Warn().Err(err).Msg("sector catalog cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	cats, err := a.categories.ActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("ActiveCategories 조회 오류. %w", err)
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(ctx, catalogCacheKey, cats, a.catalogTTL); err != nil {
			a.lg.Warn().Err(err).Msg("sector catalog cache write failed")
		}
	}
	return cats, nil
}

// RefreshCategoryCounts recomputes category.item_count from etf_info and drops the cached catalog.
func (a *Aggregator) RefreshCategoryCounts(ctx context.Context) (int64, error) {
	n, err := a.categories.RefreshCategoryCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("RefreshCategoryCounts 오류. %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Delete(ctx, catalogCacheKey); err != nil {
			a.lg.Warn().Err(err).Msg("sector catalog cache invalidation failed")
		}
	}

	a.lg.Info().Int64("categories", n).Msg("category counts refreshed")
	return n, nil
}
