package etfpanel

import (
	"context"
	"fmt"
	"strings"

	m "etfpanel/internal/model"
)

// SectorHistory is the day-over-day return history of one sector over a shared window.
// In a batch, Err marks a sector that could not be computed while its siblings were.
type SectorHistory struct {
	Sector      string
	Description string
	Instruments int
	Window      *Window
	Entries     []ReturnEntry
	Err         error
}

// SectorHistory returns n day-pair averages for sector, ending at or before date.
func (a *Aggregator) SectorHistory(ctx context.Context, sector, date string, n int, details bool) (*SectorHistory, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, invalidf("sector is required")
	}

	w, err := a.ResolveWindow(ctx, date, n, false)
	if err != nil {
		return nil, err
	}

	members, err := a.market.InstrumentsBySectors(ctx, []string{sector})
	if err != nil {
		return nil, fmt.Errorf("InstrumentsBySectors 조회 오류. %w", err)
	}
	if len(members) == 0 {
		return nil, notFoundf("no ETFs found for sector %s", sector)
	}
	sortByCode(members)

	cats, err := a.categories.CategoriesByNames(ctx, []string{sector})
	if err != nil {
		return nil, fmt.Errorf("CategoriesByNames 조회 오류. %w", err)
	}

	navs, err := a.market.Navs(ctx, codesOf(members), w.Days)
	if err != nil {
		return nil, fmt.Errorf("Navs 조회 오류. %w", err)
	}

	h := sectorHistory(sector, categoriesByName(cats)[sector], members, w, newNavIndex(navs), details)
	a.lg.Info().Str("sector", sector).Int("etfs", len(members)).Int("pairs", len(h.Entries)).Msg("sector history computed")
	return h, nil
}

// sectorHistory is shared by the single and batched paths so both produce identical results.
func sectorHistory(sector string, cat *m.Category, members []m.EtfInfo, w *Window, idx navIndex, details bool) *SectorHistory {
	h := &SectorHistory{
		Sector:      sector,
		Description: cat.DescriptionOr(sector),
		Instruments: len(members),
		Window:      w,
	}
	if len(members) == 0 {
		h.Err = notFoundf("no ETFs found for sector %s", sector)
		h.Entries = []ReturnEntry{}
		return h
	}
	h.Entries = pairReturns(members, w.Days, idx, details)
	return h
}
