package app

import (
	"context"
	"net/http"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/dedup"
	deliveryHTTP "github.com/ilindan-dev/alertgate/internal/delivery/http"
	repo "github.com/ilindan-dev/alertgate/internal/domain/repository"
	"github.com/ilindan-dev/alertgate/internal/logger"
	"github.com/ilindan-dev/alertgate/internal/manager"
	"github.com/ilindan-dev/alertgate/internal/senders"
	"github.com/ilindan-dev/alertgate/internal/storage/postgres"
	"github.com/ilindan-dev/alertgate/internal/storage/redis"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewDedupStore picks the fingerprint store for the daemon: Redis when an
// address is configured (shared across replicas), in-process otherwise.
func NewDedupStore(cfg *config.Config, log *zerolog.Logger) repo.DedupStore {
	if cfg.Redis.Addr != "" {
		return redis.NewDedupStore(redis.NewClient(cfg), cfg.DedupWindow(), log)
	}
	return dedup.NewMemory(cfg.DedupWindow())
}

// NewHistory provides the optional delivery-history repository. A nil
// repository disables auditing.
func NewHistory(cfg *config.Config, log *zerolog.Logger) (repo.HistoryRepository, error) {
	if cfg.Postgres.DSN == "" {
		return nil, nil
	}
	pool, err := postgres.NewPool(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return postgres.NewHistoryRepository(context.Background(), pool, log)
}

// ServeModule defines the Fx module for the long-running HTTP hook daemon.
func ServeModule(configPath string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (*config.Config, error) { return config.Load(configPath) },
			logger.NewLogger,
			senders.NewRegistry,
			NewDedupStore,
			NewHistory,
			manager.NewManager,
			deliveryHTTP.NewHandlers,
			deliveryHTTP.NewServer,
		),

		fx.Invoke(func(server *deliveryHTTP.Server, lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
							panic(err)
						}
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return server.Shutdown(ctx)
				},
			})
		}),
	)
}
