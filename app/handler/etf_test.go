package handler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"etfpanel"
	m "etfpanel/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(v float64) *float64 {
	return &v
}

func techWindow() *etfpanel.Window {
	return &etfpanel.Window{
		Requested: day("2024-07-05"),
		Anchor:    day("2024-07-05"),
		Days:      []time.Time{day("2024-07-02"), day("2024-07-04"), day("2024-07-05")},
	}
}

func techHistory() *etfpanel.SectorHistory {
	return &etfpanel.SectorHistory{
		Sector:      "tech",
		Description: "Technology",
		Instruments: 2,
		Window:      techWindow(),
		Entries: []etfpanel.ReturnEntry{
			{
				StartDate: day("2024-07-04"), EndDate: day("2024-07-05"), ValidCount: 2, AverageRate: rate(0.015),
				Details: []etfpanel.InstrumentReturn{{Code: "510300.SH", Name: "CSI 300", PrevNav: 1, CurrNav: 1.02, Rate: 0.02}},
			},
			{StartDate: day("2024-07-02"), EndDate: day("2024-07-04")},
		},
	}
}

func TestEtfHandler(t *testing.T) {

	auth, _, token := signedIn(t)
	calc := &ReturnCalculatorMock{}
	lister := &SectorListerMock{}

	app := newTestApp()
	NewEtfHandler(calc, lister, auth.AuthMiddleware).InitRoute(app)

	t.Run("인증 필요", func(t *testing.T) {
		code, _ := sendRequest(t, app, fiber.MethodGet, "/etf/available-sectors", nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("ETF 수익률", func(t *testing.T) {
		t.Run("성공 테스트", func(t *testing.T) {
			calc.codes = []etfpanel.CodeReturn{
				{Code: "510300.SH", Name: "CSI 300", StartDate: day("2024-07-01"), EndDate: day("2024-07-05"), StartNav: 1, EndNav: 1.05, Rate: 0.05},
				{Code: "159915.SZ", StartDate: day("2024-07-01"), EndDate: day("2024-07-05"),
					Err: fmt.Errorf("%w: NAV not found for 159915.SZ on start_date", etfpanel.ErrNotFound)},
			}

			code, env := sendRequest(t, app, fiber.MethodPost, "/etf/etf-return-rate", EtfReturnRateReq{
				ThsCodeList: []string{"510300.SH", "159915.SZ"}, StartDate: "2024-07-01", EndDate: "2024-07-05",
			}, token)

			require.Equal(t, fiber.StatusOK, code)
			resp := decodeData[codeReturnsResp](t, env)
			assert.Equal(t, 2, resp.Total)
			assert.Equal(t, 1, resp.SuccessCount)
			assert.Equal(t, 1, resp.FailCount)
			assert.Equal(t, "5.00%", resp.Results[0].ReturnRatePercent)
			assert.Equal(t, unknownName, resp.Results[1].ChineseName)
			assert.Equal(t, fiber.StatusNotFound, resp.Results[1].Status)
			assert.Nil(t, resp.Results[1].ReturnRate)
		})
		t.Run("빈 코드 목록", func(t *testing.T) {
			code, _ := sendRequest(t, app, fiber.MethodPost, "/etf/etf-return-rate", EtfReturnRateReq{
				ThsCodeList: []string{}, StartDate: "2024-07-01", EndDate: "2024-07-05",
			}, token)
			assert.Equal(t, fiber.StatusBadRequest, code)
		})
	})

	t.Run("섹터 수익률", func(t *testing.T) {
		calc.summary = &etfpanel.SectorReturnSummary{
			Instruments: 3,
			Valid:       2,
			Sectors: []etfpanel.SectorAverage{
				{Sector: "tech", Description: "Technology", Count: 2, ValidCount: 2, AverageRate: rate(0.0125)},
				{Sector: "energy", Count: 1},
			},
			Details: []etfpanel.CodeReturn{{Code: "510300.SH", Rate: 0.01}},
		}
		body := SectorReturnRateReq{StartDate: "2024-07-01", EndDate: "2024-07-05"}

		t.Run("상세 제외", func(t *testing.T) {
			code, env := sendRequest(t, app, fiber.MethodPost, "/etf/sector-return-rate", body, token)

			require.Equal(t, fiber.StatusOK, code)
			resp := decodeData[sectorReturnsResp](t, env)
			assert.Equal(t, 2, resp.TotalSectors)
			assert.Equal(t, 3, resp.TotalEtfs)
			assert.Equal(t, "1.25%", resp.SectorResults[0].AvgReturnRatePercent)
			assert.Equal(t, notAvailable, resp.SectorResults[1].AvgReturnRatePercent)
			assert.Empty(t, resp.Details)
		})
		t.Run("상세 포함", func(t *testing.T) {
			body.IncludeDetails = true
			code, env := sendRequest(t, app, fiber.MethodPost, "/etf/sector-return-rate", body, token)

			require.Equal(t, fiber.StatusOK, code)
			assert.Len(t, decodeData[sectorReturnsResp](t, env).Details, 1)
		})
	})

	t.Run("섹터 수익률 이력", func(t *testing.T) {
		t.Run("기본값 적용", func(t *testing.T) {
			calc.history = techHistory()
			code, env := sendRequest(t, app, fiber.MethodGet, "/etf/sector-return-history?sector=tech&date=2024-07-05", nil, token)

			require.Equal(t, fiber.StatusOK, code)
			assert.Equal(t, defaultHistoryCount, calc.n)
			assert.False(t, calc.details)

			resp := decodeData[sectorHistoryResp](t, env)
			assert.Equal(t, "2024-07-02", resp.WindowStartDate)
			assert.Equal(t, 2, resp.ActualCount)
			assert.Equal(t, "1.50%", resp.ReturnRateHistory[0].AvgReturnRatePercent)
			assert.Equal(t, "no valid NAV data", resp.ReturnRateHistory[1].Error)
			assert.Equal(t, notAvailable, resp.ReturnRateHistory[1].AvgReturnRatePercent)
		})
		t.Run("상세 포함", func(t *testing.T) {
			code, env := sendRequest(t, app, fiber.MethodGet, "/etf/sector-return-history?sector=tech&date=2024-07-05&n=2&includeDetails=true", nil, token)

			require.Equal(t, fiber.StatusOK, code)
			assert.Equal(t, 2, calc.n)
			assert.True(t, calc.details)
			entry := decodeData[sectorHistoryResp](t, env).ReturnRateHistory[0]
			require.Len(t, entry.EtfDetails, 1)
			assert.Equal(t, "2.00%", entry.EtfDetails[0].ReturnRatePercent)
		})
		t.Run("섹터 누락", func(t *testing.T) {
			code, _ := sendRequest(t, app, fiber.MethodGet, "/etf/sector-return-history?date=2024-07-05", nil, token)
			assert.Equal(t, fiber.StatusBadRequest, code)
		})
		t.Run("ETF 없는 섹터", func(t *testing.T) {
			calc.err = fmt.Errorf("%w: no ETFs in sector ghost", etfpanel.ErrNotFound)
			defer func() { calc.err = nil }()

			code, _ := sendRequest(t, app, fiber.MethodGet, "/etf/sector-return-history?sector=ghost&date=2024-07-05", nil, token)
			assert.Equal(t, fiber.StatusNotFound, code)
		})
	})

	t.Run("섹터 일괄 조회", func(t *testing.T) {
		t.Run("성공 테스트", func(t *testing.T) {
			calc.batch = &etfpanel.BatchHistory{
				Window:  techWindow(),
				Sectors: []string{"tech", "energy"},
				Results: map[string]*etfpanel.SectorHistory{
					"tech":   techHistory(),
					"energy": {Sector: "energy", Window: techWindow(), Err: errors.New("no ETFs in sector energy")},
				},
				Stages:  []etfpanel.StageTiming{{Name: etfpanel.StageCalendar, Elapsed: 3 * time.Millisecond}},
				Elapsed: 12 * time.Millisecond,
			}

			code, env := sendRequest(t, app, fiber.MethodGet, "/etf/sectors/batch?sectors=tech,%20energy&date=2024-07-05&includeTiming=true", nil, token)

			require.Equal(t, fiber.StatusOK, code)
			assert.Equal(t, []string{"tech", "energy"}, calc.query.Sectors)
			assert.Equal(t, defaultBatchCount, calc.query.Count)

			resp := decodeData[batchResp](t, env)
			assert.Equal(t, 2, resp.SectorsCount)
			assert.Equal(t, 3, resp.TradingDaysCount)
			assert.Equal(t, int64(12), resp.Performance.ResponseTimeMs)
			assert.Equal(t, int64(3), resp.Performance.DetailedTiming["calendar_query_ms"])
			assert.Equal(t, "no ETFs in sector energy", resp.Results["energy"].Error)
		})
		t.Run("실패 시 성능 정보 포함", func(t *testing.T) {
			calc.batch = &etfpanel.BatchHistory{
				Sectors: []string{"tech"},
				Stages:  []etfpanel.StageTiming{{Name: etfpanel.StageCalendar, Elapsed: time.Millisecond}},
				Elapsed: 2 * time.Millisecond,
			}
			calc.err = fmt.Errorf("%w: required 16, found 3", etfpanel.ErrInsufficientData)
			defer func() { calc.err = nil }()

			code, env := sendRequest(t, app, fiber.MethodGet, "/etf/sectors/batch?sectors=tech&date=2024-07-05", nil, token)

			assert.Equal(t, fiber.StatusNotFound, code)
			data := decodeData[map[string]performanceResp](t, env)
			assert.Equal(t, int64(2), data["performance"].ResponseTimeMs)
			assert.Nil(t, data["performance"].DetailedTiming)
		})
		t.Run("섹터 누락", func(t *testing.T) {
			code, _ := sendRequest(t, app, fiber.MethodGet, "/etf/sectors/batch?sectors=%20,%20&date=2024-07-05", nil, token)
			assert.Equal(t, fiber.StatusBadRequest, code)
		})
	})

	t.Run("섹터 목록", func(t *testing.T) {
		lister.cats = []m.Category{
			{Cid: 1, Name: "tech", Description: "Technology", SortOrder: 1, ItemCount: 12},
			{Cid: 2, Name: "energy", SortOrder: 2, ItemCount: 4},
		}

		code, env := sendRequest(t, app, fiber.MethodGet, "/etf/available-sectors", nil, token)

		require.Equal(t, fiber.StatusOK, code)
		resp := decodeData[sectorsResp](t, env)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, sectorResp{Cid: 1, Sector: "tech", Description: "Technology", SortOrder: 1, EtfCount: 12}, resp.Sectors[0])
	})
}
