package etfpanel

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"
)

const (
	CategoryCountSpec = "0 30 6 * * *"
	refreshTimeout    = time.Minute
)

// Refresher periodically rewrites category.item_count so the sector catalog stays close to etf_info.
type Refresher struct {
	agg  *Aggregator
	spec string
	c    *cron.Cron
	lg   zerolog.Logger
}

func NewRefresher(agg *Aggregator, spec string) *Refresher {
	if spec == "" {
		spec = CategoryCountSpec
	}
	return &Refresher{
		agg:  agg,
		spec: spec,
		lg:   zerolog.New(os.Stdout).With().Str("Module", "Refresher").Timestamp().Logger(),
	}
}

func (r *Refresher) Run() error {
	r.lg.Info().Str("spec", r.spec).Msg("Starting Refresher Run")
	c := cron.New()
	if err := c.AddFunc(r.spec, r.refresh); err != nil {
		return err
	}
	c.Start()
	r.c = c
	return nil
}

func (r *Refresher) Stop() {
	if r.c != nil {
		r.c.Stop()
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := r.agg.RefreshCategoryCounts(ctx); err != nil {
		r.lg.Error().Err(err).Msg("category count refresh failed")
	}
}
