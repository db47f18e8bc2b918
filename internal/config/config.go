package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/emrgen/reader/internal/model"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConfigPathEnv names the variable holding the optional TOML config path.
const ConfigPathEnv = "READER_CONFIG"

type DBConfig struct {
	Type string `toml:"type" env:"DB_TYPE"` // sqlite|postgres
	Path string `toml:"path" env:"DB_PATH"` // sqlite file
	DSN  string `toml:"dsn" env:"DB_DSN"`   // postgres dsn
}

type FilesConfig struct {
	Backend  string `toml:"backend" env:"FILE_STORE"` // local|nats
	AudioDir string `toml:"audio_dir" env:"AUDIO_DIR"`
}

type NATSConfig struct {
	URL    string `toml:"url" env:"NATS_URL"`
	Bucket string `toml:"bucket" env:"NATS_BUCKET"`
}

type TTSConfig struct {
	Backend        string `toml:"backend" env:"TTS_BACKEND"` // http|google
	Endpoint       string `toml:"endpoint" env:"TTS_ENDPOINT"`
	APIKey         string `toml:"api_key" env:"TTS_API_KEY"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TTS_TIMEOUT_SECONDS"`
	Concurrency    int    `toml:"concurrency" env:"TTS_CONCURRENCY"`
}

type CacheConfig struct {
	Backend       string `toml:"backend" env:"CACHE_BACKEND"` // none|memory|redis
	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	Codec         string `toml:"codec" env:"CACHE_CODEC"`
	TTLSeconds    int    `toml:"ttl_seconds" env:"CACHE_TTL_SECONDS"`
}

type KafkaConfig struct {
	Brokers string `toml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string `toml:"topic" env:"KAFKA_TOPIC"`
}

// JobsConfig holds robfig/cron schedules. An empty schedule disables the job.
type JobsConfig struct {
	SweepSchedule  string `toml:"sweep_schedule" env:"JOB_SWEEP_SCHEDULE"`
	VerifySchedule string `toml:"verify_schedule" env:"JOB_VERIFY_SCHEDULE"`
	StatsSchedule  string `toml:"stats_schedule" env:"JOB_STATS_SCHEDULE"`
}

type Config struct {
	LogLevel string      `toml:"log_level" env:"LOG_LEVEL"`
	DB       DBConfig    `toml:"db"`
	Files    FilesConfig `toml:"files"`
	NATS     NATSConfig  `toml:"nats"`
	TTS      TTSConfig   `toml:"tts"`
	Cache    CacheConfig `toml:"cache"`
	Kafka    KafkaConfig `toml:"kafka"`
	Jobs     JobsConfig  `toml:"jobs"`
}

func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		DB: DBConfig{
			Type: "sqlite",
			Path: ".reader/reader.db",
		},
		Files: FilesConfig{
			Backend:  "local",
			AudioDir: ".reader/audio",
		},
		NATS: NATSConfig{
			URL:    "nats://127.0.0.1:4222",
			Bucket: "reader-audio",
		},
		TTS: TTSConfig{
			Backend:        "http",
			Endpoint:       "http://127.0.0.1:8880/v1/audio/speech",
			TimeoutSeconds: 60,
			Concurrency:    4,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			Codec:      "gzip",
			TTLSeconds: 600,
		},
		Kafka: KafkaConfig{
			Topic: "reader.changes",
		},
		Jobs: JobsConfig{
			SweepSchedule:  "@every 1h",
			VerifySchedule: "@every 6h",
			StatsSchedule:  "@every 10m",
		},
	}
}

// Load builds the config from the defaults, the TOML file at path (if any),
// a .env file and the environment, each overriding the previous.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// a missing .env file is fine
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	check := func(name, value string, allowed ...string) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return fmt.Errorf("%w: %s must be one of %s, got %q", model.ErrValidation, name, strings.Join(allowed, "|"), value)
	}

	if err := check("db type", c.DB.Type, "sqlite", "postgres"); err != nil {
		return err
	}
	if err := check("file store", c.Files.Backend, "local", "nats"); err != nil {
		return err
	}
	if err := check("tts backend", c.TTS.Backend, "http", "google"); err != nil {
		return err
	}
	if err := check("cache backend", c.Cache.Backend, "none", "memory", "redis"); err != nil {
		return err
	}
	if c.DB.Type == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("%w: postgres needs a dsn", model.ErrValidation)
	}
	if c.TTS.Concurrency < 1 {
		return fmt.Errorf("%w: tts concurrency must be positive", model.ErrValidation)
	}

	return nil
}

func (c *Config) TTSTimeout() time.Duration {
	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// KafkaBrokers returns the configured brokers, empty when export is off.
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// LoadConfig loads the config named by READER_CONFIG and applies the log level.
func LoadConfig() *Config {
	cfg, err := Load(os.Getenv(ConfigPathEnv))
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return cfg
}

// SqliteDSN returns the dsn used for sqlite files. Writers share a single
// connection and wait on locks instead of failing.
func SqliteDSN(path string) string {
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

func OpenDb(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DB.Type {
	case "postgres":
		logrus.Infof("connecting to postgres")
		return gorm.Open(postgres.Open(cfg.DB.DSN), gormConfig)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, err
		}
		logrus.Infof("opening sqlite database at %s", cfg.DB.Path)
		db, err := gorm.Open(sqlite.Open(SqliteDSN(cfg.DB.Path)), gormConfig)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
}

func GetDb(cfg *Config) *gorm.DB {
	db, err := OpenDb(cfg)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	return db
}
