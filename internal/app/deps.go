package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gogotex/pingbot/internal/bot"
	"github.com/gogotex/pingbot/internal/config"
	"github.com/gogotex/pingbot/internal/database"
	"github.com/gogotex/pingbot/internal/deliveries"
	"github.com/gogotex/pingbot/internal/notify"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/wiki"
	"github.com/gogotex/pingbot/pkg/logger"
)

const mongoConnectAttempts = 5

// Deps are the backends selected by configuration. Shared by the server and pingctl.
type Deps struct {
	Redis      *redis.Client
	Mongo      *mongo.Client
	Pages      wiki.Backend
	Settings   settings.Source
	Saver      settings.Saver // nil when settings are read-only
	Messenger  notify.Messenger
	Deliveries *deliveries.Tracker
}

func needsRedis(cfg *config.Config) bool {
	return cfg.Store.Backend == "redis" || cfg.Settings.Backend == "redis" || cfg.Outbox.Backend == "redis" ||
		(cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis)
}

// Open connects everything cfg asks for. Call Close when done.
func Open(ctx context.Context, cfg *config.Config) (*Deps, error) {
	d := &Deps{}
	if cfg.Redis.Host != "" {
		client, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			if needsRedis(cfg) {
				return nil, err
			}
			logger.Warnf("[app] redis unavailable, continuing without it: %v", err)
		} else {
			d.Redis = client
			logger.Infof("[app] connected to Redis at %s", cfg.Redis.Addr())
		}
	} else if needsRedis(cfg) {
		return nil, fmt.Errorf("REDIS_HOST is required by the selected backends")
	}

	if err := d.openPages(ctx, cfg); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.openSettings(cfg); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.openMessenger(cfg); err != nil {
		d.Close()
		return nil, err
	}
	d.openDeliveries(cfg)
	return d, nil
}

func (d *Deps) openPages(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Backend {
	case "", "memory":
		logger.Warnf("[app] using in-memory page store; data is lost on restart")
		d.Pages = wiki.NewMemoryBackend()
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			return err
		}
		d.Mongo = client
		d.Pages = wiki.NewMongoBackend(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
	case "redis":
		d.Pages = wiki.NewRedisBackend(d.Redis, "wiki:")
	case "minio":
		b, err := wiki.NewMinIOBackend(cfg.MinIO)
		if err != nil {
			return err
		}
		d.Pages = b
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	logger.Infof("[app] page store: %s", cfg.Store.Backend)
	return nil
}

func (d *Deps) openSettings(cfg *config.Config) error {
	switch cfg.Settings.Backend {
	case "", "memory":
		src := settings.NewMemorySource()
		d.Settings, d.Saver = src, src
	case "file":
		d.Settings = settings.NewFileSource(cfg.Settings.File)
	case "redis":
		src := settings.NewRedisSource(d.Redis, "settings:")
		d.Settings, d.Saver = src, src
	default:
		return fmt.Errorf("unknown SETTINGS_BACKEND %q", cfg.Settings.Backend)
	}
	return nil
}

func (d *Deps) openMessenger(cfg *config.Config) error {
	switch cfg.Outbox.Backend {
	case "", "log":
		d.Messenger = notify.LogMessenger{}
	case "redis":
		d.Messenger = notify.NewRedisOutbox(d.Redis, cfg.Outbox.Key)
	default:
		return fmt.Errorf("unknown OUTBOX_BACKEND %q", cfg.Outbox.Backend)
	}
	return nil
}

// openDeliveries keeps processed event IDs next to the other shared state:
// Redis when connected, else Mongo, else process memory.
func (d *Deps) openDeliveries(cfg *config.Config) {
	var repo deliveries.Repository
	switch {
	case d.Redis != nil:
		repo = deliveries.NewRedisRepository(d.Redis, "delivery:")
	case d.Mongo != nil:
		repo = deliveries.NewMongoRepository(d.Mongo.Database(cfg.MongoDB.Database).Collection("deliveries"))
	default:
		repo = deliveries.NewMemoryRepository()
	}
	d.Deliveries = deliveries.NewTracker(repo, cfg.Webhook.DedupeTTL)
}

// Adapter returns the document adapter over the selected page store.
func (d *Deps) Adapter(cfg *config.Config) *wiki.Adapter {
	return wiki.NewAdapter(d.Pages, cfg.Store.PageName)
}

// Dispatcher builds the bot over the selected backends.
func (d *Deps) Dispatcher(cfg *config.Config) *bot.Dispatcher {
	return bot.New(d.Settings, d.Adapter(cfg), d.Messenger, bot.Options{
		MentionPrefix: cfg.Bot.MentionPrefix,
		BaseURL:       cfg.Bot.BaseURL,
	})
}

// Close releases connections.
func (d *Deps) Close() {
	if d.Mongo != nil {
		_ = d.Mongo.Disconnect(context.Background())
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}
