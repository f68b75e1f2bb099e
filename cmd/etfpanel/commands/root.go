package commands

import (
	"fmt"

	"etfpanel"
	"etfpanel/config"
	"etfpanel/internal/db"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "etfpanel",
	Short: "ETF sector return-rate backend",
	Long: `etfpanel serves trading-day windows, ETF return rates and sector history
over HTTP, backed by the calendar, etf_info and etf_netasset tables.

Examples:
  etfpanel serve
  etfpanel migrate
  etfpanel refresh-counts`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads the configuration, applies the log level and opens the stores.
// The returned close func releases the database and cache connections.
func bootstrap() (*config.Config, *db.Storage, *db.Cache, func(), error) {

	conf, err := config.NewConfig()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("config 로드 오류. %w", err)
	}

	level, err := conf.LogLevel()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	zerolog.SetGlobalLevel(level)

	stg, err := db.NewStorage(conf.MysqlConfig())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("storage 연결 오류. %w", err)
	}
	cache := db.NewCache(conf.RedisConfig())

	closeAll := func() {
		cache.Close()
		stg.Close()
	}
	return conf, stg, cache, closeAll, nil
}

func newAggregator(conf *config.Config, stg *db.Storage, cache *db.Cache) (*etfpanel.Aggregator, error) {
	ttl, err := conf.CatalogTTL()
	if err != nil {
		return nil, err
	}
	return etfpanel.NewAggregator(etfpanel.AggregatorConfig{
		Storage:    stg,
		Cache:      cache,
		CatalogTTL: ttl,
	}), nil
}
