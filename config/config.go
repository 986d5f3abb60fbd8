package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"openalex_db"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4270"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// OpenAlex API. The mailto address puts requests into the polite pool.
	OpenAlexBaseURL string `envconfig:"OPENALEX_BASE_URL" default:"https://api.openalex.org"`
	OpenAlexEmail   string `envconfig:"OPENALEX_EMAIL"`
	OpenAlexPerPage int    `envconfig:"OPENALEX_PER_PAGE" default:"200"`

	// HAL open archive API (Solr search endpoint).
	HALBaseURL string `envconfig:"HAL_BASE_URL" default:"https://api.hal.science/search/"`
	HALPerPage int    `envconfig:"HAL_PER_PAGE" default:"500"`

	// Works are filtered to institutions of this ISO 3166-1 alpha-2 country.
	CountryCode string `envconfig:"COUNTRY_CODE" default:"MA"`

	// FetchLimit caps the number of works retrieved per run. 0 means no limit.
	FetchLimit int `envconfig:"FETCH_LIMIT" default:"0"`

	CronSchedule     string `envconfig:"CRON_SCHEDULE" default:"0 2 * * 0"`
	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"openalex"`

	// ResetFacts truncates all fact tables before loading. Dimension rows are
	// kept. Use when re-running the pipeline against an already-loaded
	// warehouse, since association facts are append-only.
	ResetFacts bool `envconfig:"RESET_FACTS" default:"false"`

	// Raw snapshot archive (gzip JSONL of every fetched work document).
	SnapshotEnabled  bool   `envconfig:"SNAPSHOT_ENABLED" default:"false"`
	SnapshotS3Key    string `envconfig:"SNAPSHOT_S3_KEY"`
	SnapshotS3Secret string `envconfig:"SNAPSHOT_S3_SECRET"`
	SnapshotS3URL    string `envconfig:"SNAPSHOT_S3_URL"`
	SnapshotS3Region string `envconfig:"SNAPSHOT_S3_REGION" default:"us-east-1"`
	SnapshotS3Bucket string `envconfig:"SNAPSHOT_S3_BUCKET"`
}

// DSN returns the gorm/pgx data source name for the warehouse database.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// MigrateURL returns the connection URL used by golang-migrate. Credentials
// are URL-escaped so passwords with reserved characters survive.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// Load reads the configuration from the environment (and .env, if present).
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
