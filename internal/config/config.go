package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Providers Providers `yaml:"providers"`
	Report    Report    `yaml:"report"`
	Redis     Redis     `yaml:"redis"`
	Database  Database  `yaml:"database"`
	Scheduler Scheduler `yaml:"scheduler"`
	S3        S3        `yaml:"s3"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Providers holds upstream RapidAPI provider configuration. All three
// providers share one RapidAPI key.
type Providers struct {
	RapidAPIKey string `yaml:"rapidapi_key" env:"RAPIDAPI_KEY"`

	InstagramBaseURL string `yaml:"instagram_base_url" env:"INSTAGRAM_BASE_URL" env-default:"https://instagram-scraper-api2.p.rapidapi.com/v1"`
	InstagramHost    string `yaml:"instagram_host" env:"INSTAGRAM_HOST" env-default:"instagram-scraper-api2.p.rapidapi.com"`

	TwitterBaseURL string `yaml:"twitter_base_url" env:"TWITTER_BASE_URL" env-default:"https://twitter154.p.rapidapi.com"`
	TwitterHost    string `yaml:"twitter_host" env:"TWITTER_HOST" env-default:"twitter154.p.rapidapi.com"`

	YouTubeBaseURL string `yaml:"youtube_base_url" env:"YOUTUBE_BASE_URL" env-default:"https://yt-api.p.rapidapi.com"`
	YouTubeHost    string `yaml:"youtube_host" env:"YOUTUBE_HOST" env-default:"yt-api.p.rapidapi.com"`
}

// Report holds report pipeline tuning
type Report struct {
	DefaultMaxItems    int           `yaml:"default_max_items" env:"REPORT_DEFAULT_MAX_ITEMS" env-default:"100"`
	DetailConcurrency  int           `yaml:"detail_concurrency" env:"REPORT_DETAIL_CONCURRENCY" env-default:"10"`
	GrowthWindow       int           `yaml:"growth_window" env:"REPORT_GROWTH_WINDOW" env-default:"10"`
	EarlyStopFollowers int64         `yaml:"early_stop_followers" env:"REPORT_EARLY_STOP_FOLLOWERS" env-default:"100000"`
	CacheTTL           time.Duration `yaml:"cache_ttl" env:"REPORT_CACHE_TTL" env-default:"1h"`
	HistoryLimit       int           `yaml:"history_limit" env:"REPORT_HISTORY_LIMIT" env-default:"20"`
}

// Redis holds report cache configuration
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Database holds database configuration. An empty DSN disables run history.
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Scheduler holds report refresh scheduler configuration
type Scheduler struct {
	Enabled  bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"false"`
	Interval time.Duration `yaml:"interval" env:"SCHEDULER_INTERVAL" env-default:"30m"`
}

// S3 holds S3/MinIO report archive configuration. An empty bucket disables
// archiving.
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
