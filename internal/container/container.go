package container

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"poe2scout/pricer/internal/api"
	"poe2scout/pricer/internal/cache"
	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/config"
	"poe2scout/pricer/internal/matcher"
	"poe2scout/pricer/internal/queue"
	"poe2scout/pricer/internal/service"
	"poe2scout/pricer/internal/state"
	"poe2scout/pricer/internal/store"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.CatalogClient
	Cache   *cache.Cache
	Catalog *store.Catalog

	// Nil unless redis.enabled
	Queue    queue.Queue
	Status   state.StatusStore
	Commands *service.CommandRunner

	Service *service.Service

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	ConfigureLogging(cfg.Log)

	c := &Container{
		Config:  cfg,
		Client:  client.NewPoe2ScoutClient(cfg.Poe2Scout),
		Cache:   cache.New(cfg.Cache.DefaultTTLDuration(), cfg.Cache.SweepIntervalDuration()),
		Catalog: store.NewCatalog(),
	}

	if cfg.Redis.Enabled {
		if err := c.connectRedis(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.Service = service.NewService(
		c.Client,
		matcher.New(cfg.Matcher.MinSimilarity, cfg.Matcher.SubstringScore),
		c.Catalog,
		c.Cache,
		c.Status,
		service.Options{
			PerPage:       cfg.Poe2Scout.PageSize(),
			RequestDelay:  cfg.Poe2Scout.RequestDelay(),
			LookupTTL:     cfg.Cache.LookupTTLDuration(),
			LoadBaseItems: cfg.Poe2Scout.LoadBaseItems,
		},
	)

	if c.Queue != nil {
		c.Commands = service.NewCommandRunner(
			c.Service,
			c.Queue,
			cfg.Redis.ConsumerGroup,
			cfg.Redis.MinIdleTime,
			cfg.Poe2Scout.League,
		)
	}

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.Database,
	})
	c.redis = rdb

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, c.Config.Redis)
	if err != nil {
		return err
	}
	c.Queue = redisQueue
	c.Status = state.NewRedisStatusStore(rdb)

	return nil
}

// ConfigureLogging applies the configured level and format to the global logger
func ConfigureLogging(cfg config.LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Serve loads the catalog and runs the HTTP server, auto reload and command workers until ctx ends
func (c *Container) Serve(ctx context.Context) error {
	league := c.Config.Poe2Scout.League

	// Bind first, shutdown may run before the server starts
	ln, err := net.Listen("tcp", c.Config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Config.Server.Addr(), err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Lookups fall back to lazy fetches while this runs
	g.Go(func() error {
		if !c.Service.LoadAll(ctx, league) {
			log.Warnf("⚠️ Initial catalog load for %s failed, serving lazily", league)
		}
		return nil
	})

	app := api.NewApp(api.NewHandler(c.Service, league))
	g.Go(func() error {
		log.Infof("🌐 Listening on %s", ln.Addr())
		if err := app.Listener(ln); err != nil && ctx.Err() == nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		err := app.ShutdownWithTimeout(shutdownTimeout)
		_ = ln.Close()
		return err
	})

	if c.Config.Update.AutoReload && c.Config.Update.ReloadIntervalDuration() > 0 {
		g.Go(func() error {
			c.autoReload(ctx, league, c.Config.Update.ReloadIntervalDuration())
			return nil
		})
	}

	if c.Commands != nil {
		g.Go(func() error {
			return c.Commands.Run(ctx)
		})
	}

	return g.Wait()
}

func (c *Container) autoReload(ctx context.Context, league string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Service.RefreshAll(ctx, league) {
				log.Warnf("⚠️ Scheduled reload of %s failed", league)
			}
		}
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	c.Cache.Close()
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
