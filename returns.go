package etfpanel

import (
	"context"
	"fmt"
	"slices"
	"time"

	m "etfpanel/internal/model"
)

// navIndex maps instrument code to ISO date to adjusted NAV. Rows with a NULL NAV are left out.
type navIndex map[string]map[string]float64

func newNavIndex(rows []m.EtfNetAsset) navIndex {
	idx := make(navIndex)
	for _, row := range rows {
		if row.AdjustedNav == nil {
			continue
		}
		byDay, ok := idx[row.ThsCode]
		if !ok {
			byDay = make(map[string]float64)
			idx[row.ThsCode] = byDay
		}
		byDay[row.Day()] = *row.AdjustedNav
	}
	return idx
}

func (idx navIndex) lookup(code string, day time.Time) (float64, bool) {
	nav, ok := idx[code][day.Format(m.DateLayout)]
	return nav, ok
}

type InstrumentReturn struct {
	Code    string
	Name    string
	PrevNav float64
	CurrNav float64
	Rate    float64
}

// ReturnEntry is the equal-weighted average return of one day pair.
// AverageRate is nil when no instrument had usable NAVs on both days.
type ReturnEntry struct {
	StartDate   time.Time
	EndDate     time.Time
	ValidCount  int
	AverageRate *float64
	Details     []InstrumentReturn
}

// pairReturns emits one entry per consecutive pair of days, most recent pair first.
// An instrument counts toward a pair only when both NAVs exist and the earlier one is positive.
func pairReturns(members []m.EtfInfo, days []time.Time, idx navIndex, details bool) []ReturnEntry {
	entries := make([]ReturnEntry, 0, max(len(days)-1, 0))

	for i := 1; i < len(days); i++ {
		prev, curr := days[i-1], days[i]
		entry := ReturnEntry{StartDate: prev, EndDate: curr}

		var sum float64
		for _, etf := range members {
			prevNav, ok := idx.lookup(etf.ThsCode, prev)
			if !ok || prevNav <= 0 {
				continue
			}
			currNav, ok := idx.lookup(etf.ThsCode, curr)
			if !ok {
				continue
			}

			rate := (currNav - prevNav) / prevNav
			sum += rate
			entry.ValidCount++
			if details {
				entry.Details = append(entry.Details, InstrumentReturn{
					Code:    etf.ThsCode,
					Name:    etf.ChineseName,
					PrevNav: prevNav,
					CurrNav: currNav,
					Rate:    rate,
				})
			}
		}

		if entry.ValidCount > 0 {
			avg := sum / float64(entry.ValidCount)
			entry.AverageRate = &avg
		}
		entries = append(entries, entry)
	}

	slices.Reverse(entries)
	return entries
}

// CodeReturn is the point return of one instrument. Err holds a per-code failure
// wrapping ErrNotFound or ErrDivisionGuard; the other numeric fields are then partial.
type CodeReturn struct {
	Code      string
	Name      string
	Sector    string
	StartDate time.Time
	EndDate   time.Time
	StartNav  float64
	EndNav    float64
	Rate      float64
	Err       error
}

func pointReturn(etf m.EtfInfo, start, end time.Time, idx navIndex) CodeReturn {
	r := CodeReturn{
		Code:      etf.ThsCode,
		Name:      etf.ChineseName,
		Sector:    etf.Sector,
		StartDate: start,
		EndDate:   end,
	}

	startNav, ok := idx.lookup(etf.ThsCode, start)
	if !ok {
		r.Err = notFoundf("NAV not found for %s on start_date %s", etf.ThsCode, start.Format(m.DateLayout))
		return r
	}
	r.StartNav = startNav

	endNav, ok := idx.lookup(etf.ThsCode, end)
	if !ok {
		r.Err = notFoundf("NAV not found for %s on end_date %s", etf.ThsCode, end.Format(m.DateLayout))
		return r
	}
	r.EndNav = endNav

	if startNav <= 0 {
		r.Err = fmt.Errorf("%w: %s has start NAV %v", ErrDivisionGuard, etf.ThsCode, startNav)
		return r
	}

	r.Rate = (endNav - startNav) / startNav
	return r
}

// CodeReturns computes (end-start)/start for each code. Failures are embedded per code;
// the returned error covers only bad input or store failures.
func (a *Aggregator) CodeReturns(ctx context.Context, codes []string, start, end string) ([]CodeReturn, error) {
	codes = normalizeLabels(codes)
	if len(codes) == 0 {
		return nil, invalidf("thsCodeList must contain at least one code")
	}

	startDay, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	endDay, err := ParseDay(end)
	if err != nil {
		return nil, err
	}

	infos, err := a.market.InstrumentsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("InstrumentsByCodes 조회 오류. %w", err)
	}
	byCode := make(map[string]m.EtfInfo, len(infos))
	for _, etf := range infos {
		byCode[etf.ThsCode] = etf
	}

	navs, err := a.market.Navs(ctx, codes, []time.Time{startDay, endDay})
	if err != nil {
		return nil, fmt.Errorf("Navs 조회 오류. %w", err)
	}
	idx := newNavIndex(navs)

	results := make([]CodeReturn, 0, len(codes))
	for _, code := range codes {
		etf, ok := byCode[code]
		if !ok {
			etf = m.EtfInfo{ThsCode: code}
		}
		results = append(results, pointReturn(etf, startDay, endDay, idx))
	}

	a.lg.Info().Int("codes", len(codes)).Str("start", start).Str("end", end).Msg("point returns computed")
	return results, nil
}
