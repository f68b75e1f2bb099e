package handler

import (
	"fmt"

	"etfpanel"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultHistoryCount = 3
	defaultBatchCount   = 15
)

type EtfHandler struct {
	c    ReturnCalculator
	s    SectorLister
	auth fiber.Handler
}

func NewEtfHandler(c ReturnCalculator, s SectorLister, auth fiber.Handler) *EtfHandler {
	return &EtfHandler{
		c:    c,
		s:    s,
		auth: auth,
	}
}

func (h *EtfHandler) InitRoute(app fiber.Router) {

	// auth is attached per route: a group level Use on /etf would also match /etf-collect.
	router := app.Group("/etf")

	router.Post("/etf-return-rate", h.auth, h.EtfReturnRate)
	router.Post("/sector-return-rate", h.auth, h.SectorReturnRate)
	router.Get("/sector-return-history", h.auth, h.SectorReturnHistory)
	router.Get("/sectors/batch", h.auth, h.BatchSectorHistory)
	router.Get("/available-sectors", h.auth, h.AvailableSectors)
}

func (h *EtfHandler) EtfReturnRate(c *fiber.Ctx) error {

	var param EtfReturnRateReq
	if err := bodyParse(c, &param); err != nil {
		return err
	}

	results, err := h.c.CodeReturns(c.UserContext(), param.ThsCodeList, param.StartDate, param.EndDate)
	if err != nil {
		return err
	}

	resp := codeReturnsResp{Total: len(results), Results: make([]codeReturnResp, len(results))}
	for i, r := range results {
		resp.Results[i] = toCodeReturnResp(r)
		if r.Err != nil {
			resp.FailCount++
		} else {
			resp.SuccessCount++
		}
	}

	return respond(c, fiber.StatusOK, "return rates calculated", resp)
}

func (h *EtfHandler) SectorReturnRate(c *fiber.Ctx) error {

	var param SectorReturnRateReq
	if err := bodyParse(c, &param); err != nil {
		return err
	}

	summary, err := h.c.SectorReturns(c.UserContext(), param.SectorList, param.StartDate, param.EndDate)
	if err != nil {
		return err
	}

	resp := sectorReturnsResp{
		StartDate:     param.StartDate,
		EndDate:       param.EndDate,
		TotalSectors:  len(summary.Sectors),
		TotalEtfs:     summary.Instruments,
		ValidEtfs:     summary.Valid,
		SectorResults: make([]sectorAverageResp, len(summary.Sectors)),
	}
	for i, s := range summary.Sectors {
		resp.SectorResults[i] = sectorAverageResp{
			Sector:               s.Sector,
			SectorDescription:    s.Description,
			Count:                s.Count,
			ValidCount:           s.ValidCount,
			AvgReturnRate:        s.AverageRate,
			AvgReturnRatePercent: percentOrNA(s.AverageRate),
		}
	}
	if param.IncludeDetails {
		resp.Details = make([]codeReturnResp, len(summary.Details))
		for i, d := range summary.Details {
			resp.Details[i] = toCodeReturnResp(d)
		}
	}

	return respond(c, fiber.StatusOK, "sector return rates calculated", resp)
}

func (h *EtfHandler) SectorReturnHistory(c *fiber.Ctx) error {

	n, err := countParam(c, "n", defaultHistoryCount)
	if err != nil {
		return err
	}
	param := SectorHistoryQuery{
		Sector:         c.Query("sector"),
		Date:           c.Query("date"),
		N:              n,
		IncludeDetails: c.QueryBool("includeDetails"),
	}
	if err := validCheck(&param); err != nil {
		return err
	}

	history, err := h.c.SectorHistory(c.UserContext(), param.Sector, param.Date, param.N, param.IncludeDetails)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "sector return history calculated", toHistoryResp(history, param.N))
}

func (h *EtfHandler) BatchSectorHistory(c *fiber.Ctx) error {

	n, err := countParam(c, "n", defaultBatchCount)
	if err != nil {
		return err
	}
	param := BatchHistoryQuery{
		Sectors:        etfpanel.SplitSectors(c.Query("sectors")),
		Date:           c.Query("date"),
		N:              n,
		IncludeDetails: c.QueryBool("includeDetails"),
		IncludeTiming:  c.QueryBool("includeTiming"),
	}
	if err := validCheck(&param); err != nil {
		return err
	}

	batch, err := h.c.BatchSectorHistory(c.UserContext(), etfpanel.BatchQuery{
		Sectors: param.Sectors,
		Date:    param.Date,
		Count:   param.N,
		Details: param.IncludeDetails,
	})
	if err != nil {
		if batch == nil {
			return err
		}
		return dataError{
			err:  fmt.Errorf("batch sector history failed. %w", err),
			data: fiber.Map{"performance": toPerformanceResp(batch, param.IncludeTiming)},
		}
	}

	resp := batchResp{
		SectorsCount:     len(batch.Sectors),
		QueryDate:        param.Date,
		TradingDaysCount: len(batch.Window.Days),
		Results:          make(map[string]sectorHistoryResp, len(batch.Results)),
		Performance:      toPerformanceResp(batch, param.IncludeTiming),
	}
	for _, s := range batch.Sectors {
		resp.Results[s] = toHistoryResp(batch.Results[s], param.N)
	}

	return respond(c, fiber.StatusOK, "batch sector history calculated", resp)
}

func (h *EtfHandler) AvailableSectors(c *fiber.Ctx) error {

	cats, err := h.s.AvailableSectors(c.UserContext())
	if err != nil {
		return err
	}

	resp := sectorsResp{Total: len(cats), Sectors: make([]sectorResp, len(cats))}
	for i, cat := range cats {
		resp.Sectors[i] = sectorResp{
			Cid:         cat.Cid,
			Sector:      cat.Name,
			Description: cat.Description,
			SortOrder:   cat.SortOrder,
			EtfCount:    cat.ItemCount,
		}
	}

	return respond(c, fiber.StatusOK, "available sectors", resp)
}
