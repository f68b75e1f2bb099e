package etfpanel

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

type SectorAverage struct {
	Sector      string
	Description string
	// Count is the number of member instruments, ValidCount those with a usable return.
	Count       int
	ValidCount  int
	AverageRate *float64
}

// SectorReturnSummary is the single-window return of each sector between two explicit dates.
type SectorReturnSummary struct {
	StartDate   time.Time
	EndDate     time.Time
	Instruments int
	Valid       int
	Sectors     []SectorAverage
	Details     []CodeReturn
}

// SectorReturns averages point returns per sector between start and end.
// An empty sectors list covers every instrument.
func (a *Aggregator) SectorReturns(ctx context.Context, sectors []string, start, end string) (*SectorReturnSummary, error) {
	startDay, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	endDay, err := ParseDay(end)
	if err != nil {
		return nil, err
	}
	sectors = normalizeLabels(sectors)

	summary := &SectorReturnSummary{StartDate: startDay, EndDate: endDay, Sectors: []SectorAverage{}, Details: []CodeReturn{}}

	members, err := a.market.InstrumentsBySectors(ctx, sectors)
	if err != nil {
		return nil, fmt.Errorf("InstrumentsBySectors 조회 오류. %w", err)
	}
	if len(members) == 0 {
		return summary, nil
	}
	sortByCode(members)

	navs, err := a.market.Navs(ctx, codesOf(members), []time.Time{startDay, endDay})
	if err != nil {
		return nil, fmt.Errorf("Navs 조회 오류. %w", err)
	}
	idx := newNavIndex(navs)

	groups := groupBySector(members)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	rows, err := a.categories.CategoriesByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("CategoriesByNames 조회 오류. %w", err)
	}
	cats := categoriesByName(rows)

	for _, name := range names {
		avg := SectorAverage{Sector: name, Description: cats[name].DescriptionOr(name), Count: len(groups[name])}

		var sum float64
		for _, etf := range groups[name] {
			r := pointReturn(etf, startDay, endDay, idx)
			summary.Details = append(summary.Details, r)
			if r.Err != nil {
				continue
			}
			sum += r.Rate
			avg.ValidCount++
		}
		if avg.ValidCount > 0 {
			v := sum / float64(avg.ValidCount)
			avg.AverageRate = &v
		}

		summary.Instruments += avg.Count
		summary.Valid += avg.ValidCount
		summary.Sectors = append(summary.Sectors, avg)
	}

	slices.SortFunc(summary.Sectors, compareAverages)
	a.lg.Info().Int("sectors", len(summary.Sectors)).Int("etfs", summary.Instruments).Msg("sector returns computed")
	return summary, nil
}

// compareAverages orders by average descending, sectors without an average last, then by name.
func compareAverages(x, y SectorAverage) int {
	switch {
	case x.AverageRate == nil && y.AverageRate == nil:
		return strings.Compare(x.Sector, y.Sector)
	case x.AverageRate == nil:
		return 1
	case y.AverageRate == nil:
		return -1
	}
	if c := cmp.Compare(*y.AverageRate, *x.AverageRate); c != 0 {
		return c
	}
	return strings.Compare(x.Sector, y.Sector)
}
