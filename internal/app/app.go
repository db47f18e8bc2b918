package app

import (
	"context"
	"errors"
	"strings"

	"github.com/emrgen/reader/internal/cache"
	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/filestore"
	"github.com/emrgen/reader/internal/notify"
	"github.com/emrgen/reader/internal/queue"
	"github.com/emrgen/reader/internal/service"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/tts"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the wired components of one reader process.
type App struct {
	Config     *config.Config
	Store      *store.GormStore
	Files      filestore.Store
	Pipeline   *synth.Pipeline
	Paragraphs *service.ParagraphService
	Articles   *service.ArticleService
	Hub        *notify.Hub
	Changes    queue.ChangeQueue

	closers []func() error
}

// New opens the database and wires the components described by cfg.
func New(cfg *config.Config) (*App, error) {
	db, err := config.OpenDb(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithDb(cfg, db)
}

// NewWithDb wires an app over an open database.
func NewWithDb(cfg *config.Config, db *gorm.DB) (*App, error) {
	a := &App{Config: cfg}
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if err := a.wire(db); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) wire(db *gorm.DB) error {
	cfg := a.Config

	a.Store = store.NewGormStore(db)
	if err := a.Store.Migrate(); err != nil {
		return err
	}

	files, err := a.openFiles()
	if err != nil {
		return err
	}
	a.Files = files

	synthesizer, err := a.openSynthesizer()
	if err != nil {
		return err
	}

	views, err := a.openViewCache()
	if err != nil {
		return err
	}

	a.Pipeline = synth.NewPipeline(a.Store, a.Files, tts.Timed(synthesizer), cfg.TTS.Concurrency)
	a.Paragraphs = service.NewParagraphService(a.Store, a.Pipeline)
	a.Articles = service.NewArticleService(a.Store, a.Pipeline, views)

	a.Hub = notify.NewHub(a.Store, a.Paragraphs, a.Articles)
	a.Store.Listen(a.Hub)

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		changes, err := queue.NewKafkaChangeQueue(strings.Join(brokers, ","), cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		a.Changes = changes
		a.Store.Listen(changes)
		a.closers = append(a.closers, changes.Close)
		logrus.Infof("exporting changes to kafka topic %s", cfg.Kafka.Topic)
	}

	return nil
}

func (a *App) openFiles() (filestore.Store, error) {
	cfg := a.Config

	if cfg.Files.Backend != "nats" {
		return filestore.NewLocalStore(cfg.Files.AudioDir)
	}

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		nc.Close()
		return nil
	})

	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	logrus.Infof("storing audio in nats bucket %s", cfg.NATS.Bucket)
	return filestore.NewNatsStore(js, cfg.NATS.Bucket)
}

func (a *App) openSynthesizer() (tts.Synthesizer, error) {
	cfg := a.Config

	if cfg.TTS.Backend != "google" {
		return tts.NewHTTPSynthesizer(cfg.TTS.Endpoint, cfg.TTS.APIKey, cfg.TTSTimeout()), nil
	}

	google, err := tts.NewGoogleSynthesizer(context.Background())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, google.Close)

	return google, nil
}

func (a *App) openViewCache() (cache.ViewCache, error) {
	cfg := a.Config

	codec, err := compress.ByName(cfg.Cache.Codec)
	if err != nil {
		return nil, err
	}

	switch cfg.Cache.Backend {
	case "redis":
		redis := cache.NewRedisViewCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.CacheTTL(), codec)
		a.closers = append(a.closers, redis.Close)
		if err := redis.Ping(context.Background()); err != nil {
			logrus.Warnf("redis view cache unreachable, reads fall through: %v", err)
		}
		return redis, nil
	case "memory":
		return cache.NewMemory(codec, cfg.CacheTTL()), nil
	default:
		return cache.NewNop(), nil
	}
}

// Close releases the components in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
