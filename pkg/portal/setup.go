package portal

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/elastic_client"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"github.com/travigo/driverportal/pkg/redis_client"
	"github.com/travigo/driverportal/pkg/util"
)

// Portal is a fully wired portal: config, feed repository and lookup service.
type Portal struct {
	Config     *Config
	Repository *feeds.Repository
	Service    *Service
}

// Setup loads the config file and wires the feed cache, fetchers and lookup indexing from
// the environment.
func Setup(ctx context.Context, configPath string) (*Portal, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	var cache feeds.Cache
	if redis_client.Configured() {
		if err := redis_client.Connect(ctx); err != nil {
			return nil, err
		}
		cache = feeds.NewRedisCache(redis_client.Client, config.Registry.CacheTTL.Duration)
	} else {
		log.Info().Dur("ttl", config.Registry.CacheTTL.Duration).Msg("Caching feeds in memory")
		cache = feeds.NewMemoryCache(config.Registry.CacheTTL.Duration)
	}

	fetchers := map[feeds.Format]feeds.Fetcher{}
	httpFetcher := feeds.NewHTTPFetcher()
	fetchers[feeds.FormatCSV] = httpFetcher
	fetchers[feeds.FormatXLSX] = httpFetcher

	if apiKey := util.GetEnvironmentVariable("DRIVERPORTAL_SHEETS_API_KEY", ""); apiKey != "" {
		sheetsFetcher, err := feeds.NewSheetsFetcher(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		fetchers[feeds.FormatSheetsAPI] = sheetsFetcher
	}

	builder, err := links.NewBuilder(config.Links)
	if err != nil {
		return nil, err
	}

	repository := feeds.NewRepository(&config.Registry, cache, fetchers)
	service := NewService(repository, builder, config.DashboardKeyword)

	if err := elastic_client.Connect(false); err != nil {
		return nil, err
	}
	if elastic_client.Client != nil {
		service.Observer = ElasticObserver{}
	}

	return &Portal{
		Config:     config,
		Repository: repository,
		Service:    service,
	}, nil
}
