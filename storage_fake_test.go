package etfpanel

import (
	"context"
	"slices"
	"strings"
	"time"

	m "etfpanel/internal/model"

	"gorm.io/datatypes"
)

// fakeStorage keeps the calendar and market tables in memory.
type fakeStorage struct {
	days map[string]*int8
	etfs []m.EtfInfo
	navs []m.EtfNetAsset
	cats []m.Category

	memberCalls int
	navCalls    int
	err         error
}

func flag(v int8) *int8 {
	return &v
}

func day(s string) time.Time {
	d, err := time.Parse(m.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func nav(code, date string, v float64) m.EtfNetAsset {
	return m.EtfNetAsset{ThsCode: code, Time: datatypes.Date(day(date)), AdjustedNav: &v}
}

// julyCalendar has 2024-07-03 as a holiday and 2024-07-06/07 as a weekend.
func julyCalendar() map[string]*int8 {
	return map[string]*int8{
		"20240701": flag(1),
		"20240702": flag(1),
		"20240703": flag(0),
		"20240704": flag(1),
		"20240705": flag(1),
		"20240706": flag(0),
		"20240707": flag(0),
	}
}

func (f *fakeStorage) sortedDaysDesc() []string {
	keys := make([]string, 0, len(f.days))
	for k := range f.days {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys
}

func (f *fakeStorage) CalendarDay(ctx context.Context, d time.Time) (*m.CalendarDay, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := d.Format(m.CompactLayout)
	fl, ok := f.days[key]
	if !ok {
		return nil, nil
	}
	return &m.CalendarDay{Day: key, IsTradingDay: fl}, nil
}

func (f *fakeStorage) PreviousTradingDay(ctx context.Context, before time.Time) (*m.CalendarDay, error) {
	key := before.Format(m.CompactLayout)
	for _, k := range f.sortedDaysDesc() {
		row := m.CalendarDay{Day: k, IsTradingDay: f.days[k]}
		if k < key && row.Trading() {
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) TradingDays(ctx context.Context, end time.Time, count int) ([]m.CalendarDay, error) {
	key := end.Format(m.CompactLayout)
	var rows []m.CalendarDay
	for _, k := range f.sortedDaysDesc() {
		row := m.CalendarDay{Day: k, IsTradingDay: f.days[k]}
		if k <= key && row.Trading() && len(rows) < count {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeStorage) InstrumentsBySectors(ctx context.Context, sectors []string) ([]m.EtfInfo, error) {
	f.memberCalls++
	var out []m.EtfInfo
	for _, etf := range f.etfs {
		if len(sectors) == 0 || slices.Contains(sectors, etf.Sector) {
			out = append(out, etf)
		}
	}
	return out, nil
}

func (f *fakeStorage) InstrumentsByCodes(ctx context.Context, codes []string) ([]m.EtfInfo, error) {
	var out []m.EtfInfo
	for _, etf := range f.etfs {
		if slices.Contains(codes, etf.ThsCode) {
			out = append(out, etf)
		}
	}
	return out, nil
}

func (f *fakeStorage) Navs(ctx context.Context, codes []string, days []time.Time) ([]m.EtfNetAsset, error) {
	f.navCalls++
	wanted := make([]string, len(days))
	for i, d := range days {
		wanted[i] = d.Format(m.DateLayout)
	}
	var out []m.EtfNetAsset
	for _, n := range f.navs {
		if slices.Contains(codes, n.ThsCode) && slices.Contains(wanted, n.Day()) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStorage) CategoriesByNames(ctx context.Context, names []string) ([]m.Category, error) {
	var out []m.Category
	for _, c := range f.cats {
		if slices.Contains(names, c.Name) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStorage) ActiveCategories(ctx context.Context) ([]m.Category, error) {
	var out []m.Category
	for _, c := range f.cats {
		if c.Status == m.CategoryActive {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b m.Category) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

func (f *fakeStorage) RefreshCategoryCounts(ctx context.Context) (int64, error) {
	for i := range f.cats {
		n := 0
		for _, etf := range f.etfs {
			if strings.EqualFold(etf.Sector, f.cats[i].Name) {
				n++
			}
		}
		f.cats[i].ItemCount = n
	}
	return int64(len(f.cats)), nil
}

func newTestAggregator(stg *fakeStorage) *Aggregator {
	return NewAggregator(AggregatorConfig{Storage: stg})
}

func isoDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(m.DateLayout)
	}
	return out
}
