package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	FeatureFlags FeatureFlagsConfig
	Media        MediaConfig
	Analytics    AnalyticsConfig
	IngestLimit  IngestLimitConfig
	GCP          GCPConfig
	GCS          GCSConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GALERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"GALERIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GALERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GALERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GALERIA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GALERIA_DB_DSN"`
	Driver string `envconfig:"GALERIA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GALERIA_DB_HOST"`
	Port     int    `envconfig:"GALERIA_DB_PORT" default:"5432"`
	User     string `envconfig:"GALERIA_DB_USER"`
	Password string `envconfig:"GALERIA_DB_PASSWORD"`
	Name     string `envconfig:"GALERIA_DB_NAME"`
	SSLMode  string `envconfig:"GALERIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GALERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GALERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GALERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GALERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a postgres DSN from the discrete host fields when a full DSN
// was not supplied.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either GALERIA_DB_DSN or host/user/name fields are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GALERIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GALERIA_REDIS_ADDR"`
	Password     string        `envconfig:"GALERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"GALERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GALERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GALERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GALERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GALERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GALERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig describes the hosted auth provider that mints the bearer
// tokens this API consumes. Signatures are verified locally with the provider's
// shared secret; the API never issues tokens itself.
type IdentityConfig struct {
	JWTSecret string `envconfig:"GALERIA_IDENTITY_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"GALERIA_IDENTITY_ISSUER" required:"true"`
	Audience  string `envconfig:"GALERIA_IDENTITY_AUDIENCE" default:"authenticated"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GALERIA_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"GALERIA_MEDIA_MAX_UPLOAD_BYTES" default:"52428800"`
}

type AnalyticsConfig struct {
	// ActiveWindow bounds how far back a session start may lie for the session
	// to still count as active on the dashboard.
	ActiveWindow time.Duration `envconfig:"GALERIA_ANALYTICS_ACTIVE_WINDOW" default:"5m"`
	// StaleSessionCutoff is how old an unended session must be before the cron
	// worker closes it.
	StaleSessionCutoff time.Duration `envconfig:"GALERIA_ANALYTICS_STALE_CUTOFF" default:"24h"`
}

// IngestLimitConfig rate limits the unauthenticated analytics ingest endpoints.
type IngestLimitConfig struct {
	Window  time.Duration `envconfig:"GALERIA_INGEST_LIMIT_WINDOW" default:"1m"`
	IPLimit int64         `envconfig:"GALERIA_INGEST_LIMIT_IP" default:"120"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GALERIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GALERIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GALERIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"GALERIA_GCS_BUCKET" default:"media_files"`
}

type PubSubConfig struct {
	// MediaDeleteSubscription receives GCS OBJECT_DELETE notifications for the
	// media bucket.
	MediaDeleteSubscription string `envconfig:"GALERIA_PUBSUB_MEDIA_DELETE_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset         string `envconfig:"GALERIA_BIGQUERY_DATASET"`
	EngagementTable string `envconfig:"GALERIA_BIGQUERY_ENGAGEMENT_TABLE" default:"media_engagement"`
}
