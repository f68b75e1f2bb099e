package handler

import (
	"time"

	"etfpanel"
	m "etfpanel/internal/model"
)

const unknownName = "unknown"

/***************************************************************** request ****************************************************************/

type RegisterReq struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TradingDaysQuery struct {
	Date string `validate:"required,isodate"`
	N    int    `validate:"gt=0"`
}

type EtfReturnRateReq struct {
	ThsCodeList []string `json:"thsCodeList" validate:"required,min=1"`
	StartDate   string   `json:"start_date" validate:"required,isodate"`
	EndDate     string   `json:"end_date" validate:"required,isodate"`
}

type SectorReturnRateReq struct {
	SectorList     []string `json:"sectorList"`
	StartDate      string   `json:"start_date" validate:"required,isodate"`
	EndDate        string   `json:"end_date" validate:"required,isodate"`
	IncludeDetails bool     `json:"includeDetails"`
}

type SectorHistoryQuery struct {
	Sector         string `validate:"required"`
	Date           string `validate:"required,isodate"`
	N              int    `validate:"gt=0"`
	IncludeDetails bool
}

type BatchHistoryQuery struct {
	Sectors        []string `validate:"required,min=1"`
	Date           string   `validate:"required,isodate"`
	N              int      `validate:"gt=0"`
	IncludeDetails bool
	IncludeTiming  bool
}

type CollectReq struct {
	Cid uint `json:"cid" validate:"required,gt=0"`
}

/***************************************************************** response ****************************************************************/

type userResp struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type authResp struct {
	User      userResp `json:"user"`
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
}

type originalInput struct {
	Date string `json:"date"`
	N    int    `json:"n"`
}

type tradingDaysResp struct {
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	TradingDaysCount int           `json:"tradingDaysCount"`
	TradingDays      []string      `json:"tradingDays"`
	OriginalInput    originalInput `json:"originalInput"`
}

type codeReturnResp struct {
	ThsCode           string   `json:"ths_code"`
	ChineseName       string   `json:"chinese_name"`
	Sector            string   `json:"sector,omitempty"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	StartAdjustedNav  *float64 `json:"start_adjusted_nav,omitempty"`
	EndAdjustedNav    *float64 `json:"end_adjusted_nav,omitempty"`
	ReturnRate        *float64 `json:"return_rate,omitempty"`
	ReturnRatePercent string   `json:"return_rate_percent,omitempty"`
	Error             string   `json:"error,omitempty"`
	Status            int      `json:"status,omitempty"`
}

type codeReturnsResp struct {
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	FailCount    int              `json:"fail_count"`
	Results      []codeReturnResp `json:"results"`
}

type sectorAverageResp struct {
	Sector               string   `json:"sector"`
	SectorDescription    string   `json:"sector_description"`
	Count                int      `json:"count"`
	ValidCount           int      `json:"valid_count"`
	AvgReturnRate        *float64 `json:"avg_return_rate"`
	AvgReturnRatePercent string   `json:"avg_return_rate_percent"`
}

type sectorReturnsResp struct {
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	TotalSectors  int                 `json:"total_sectors"`
	TotalEtfs     int                 `json:"total_etfs"`
	ValidEtfs     int                 `json:"valid_etfs"`
	SectorResults []sectorAverageResp `json:"sector_results"`
	Details       []codeReturnResp    `json:"details,omitempty"`
}

type etfDetailResp struct {
	ThsCode           string  `json:"ths_code"`
	ChineseName       string  `json:"chinese_name"`
	PrevNav           float64 `json:"prev_nav"`
	CurrNav           float64 `json:"curr_nav"`
	ReturnRate        float64 `json:"return_rate"`
	ReturnRatePercent string  `json:"return_rate_percent"`
}

type historyEntryResp struct {
	StartDate            string          `json:"start_date"`
	EndDate              string          `json:"end_date"`
	ValidEtfCount        int             `json:"valid_etf_count"`
	AvgReturnRate        *float64        `json:"avg_return_rate"`
	AvgReturnRatePercent string          `json:"avg_return_rate_percent"`
	Error                string          `json:"error,omitempty"`
	EtfDetails           []etfDetailResp `json:"etf_details,omitempty"`
}

type sectorHistoryResp struct {
	Sector            string             `json:"sector"`
	SectorDescription string             `json:"sector_description"`
	TotalEtfs         int                `json:"total_etfs"`
	QueryDate         string             `json:"query_date"`
	ActualEndDate     string             `json:"actual_end_date"`
	WindowStartDate   string             `json:"window_start_date"`
	RequestedCount    int                `json:"requested_count"`
	ActualCount       int                `json:"actual_count"`
	ReturnRateHistory []historyEntryResp `json:"return_rate_history"`
	Error             string             `json:"error,omitempty"`
}

type performanceResp struct {
	ResponseTimeMs int64            `json:"response_time_ms"`
	SectorsQueried int              `json:"sectors_queried"`
	TradingDays    int              `json:"trading_days"`
	DetailedTiming map[string]int64 `json:"detailed_timing,omitempty"`
}

type batchResp struct {
	SectorsCount     int                          `json:"sectors_count"`
	QueryDate        string                       `json:"query_date"`
	TradingDaysCount int                          `json:"trading_days_count"`
	Results          map[string]sectorHistoryResp `json:"results"`
	Performance      performanceResp              `json:"performance"`
}

type sectorResp struct {
	Cid         uint   `json:"cid"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	EtfCount    int    `json:"etf_count"`
}

type sectorsResp struct {
	Total   int          `json:"total"`
	Sectors []sectorResp `json:"sectors"`
}

type collectionsResp struct {
	Total       int                 `json:"total"`
	Collections []m.CollectedSector `json:"collections"`
}

/***************************************************************** convert ****************************************************************/

func isoDate(t time.Time) string {
	return t.Format(m.DateLayout)
}

func toUserResp(u *m.User) userResp {
	return userResp{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toCodeReturnResp(r etfpanel.CodeReturn) codeReturnResp {
	resp := codeReturnResp{
		ThsCode:     r.Code,
		ChineseName: r.Name,
		Sector:      r.Sector,
		StartDate:   isoDate(r.StartDate),
		EndDate:     isoDate(r.EndDate),
	}
	if resp.ChineseName == "" {
		resp.ChineseName = unknownName
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
		resp.Status = statusOf(r.Err)
		return resp
	}

	start, end, rate := r.StartNav, r.EndNav, r.Rate
	resp.StartAdjustedNav = &start
	resp.EndAdjustedNav = &end
	resp.ReturnRate = &rate
	resp.ReturnRatePercent = percent(rate)
	return resp
}

func toHistoryResp(h *etfpanel.SectorHistory, requested int) sectorHistoryResp {
	resp := sectorHistoryResp{
		Sector:            h.Sector,
		SectorDescription: h.Description,
		TotalEtfs:         h.Instruments,
		QueryDate:         isoDate(h.Window.Requested),
		ActualEndDate:     isoDate(h.Window.Anchor),
		WindowStartDate:   isoDate(h.Window.Start()),
		RequestedCount:    requested,
		ActualCount:       len(h.Entries),
		ReturnRateHistory: make([]historyEntryResp, 0, len(h.Entries)),
	}
	if h.Err != nil {
		resp.Error = h.Err.Error()
	}

	for _, e := range h.Entries {
		entry := historyEntryResp{
			StartDate:            isoDate(e.StartDate),
			EndDate:              isoDate(e.EndDate),
			ValidEtfCount:        e.ValidCount,
			AvgReturnRate:        e.AverageRate,
			AvgReturnRatePercent: percentOrNA(e.AverageRate),
		}
		if e.AverageRate == nil {
			entry.Error = "no valid NAV data"
		}
		for _, d := range e.Details {
			entry.EtfDetails = append(entry.EtfDetails, etfDetailResp{
				ThsCode:           d.Code,
				ChineseName:       d.Name,
				PrevNav:           d.PrevNav,
				CurrNav:           d.CurrNav,
				ReturnRate:        d.Rate,
				ReturnRatePercent: percent(d.Rate),
			})
		}
		resp.ReturnRateHistory = append(resp.ReturnRateHistory, entry)
	}
	return resp
}

func toPerformanceResp(b *etfpanel.BatchHistory, timing bool) performanceResp {
	perf := performanceResp{
		ResponseTimeMs: b.Elapsed.Milliseconds(),
		SectorsQueried: len(b.Sectors),
	}
	if b.Window != nil {
		perf.TradingDays = len(b.Window.Days)
	}
	if timing {
		perf.DetailedTiming = make(map[string]int64, len(b.Stages))
		for _, s := range b.Stages {
			perf.DetailedTiming[s.Name+"_ms"] = s.Elapsed.Milliseconds()
		}
	}
	return perf
}
