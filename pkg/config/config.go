package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Drivers      DriversConfig
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
	Env          string   `envconfig:"QUICKPOUR_APP_ENV" required:"true"`
	Port         string   `envconfig:"QUICKPOUR_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"QUICKPOUR_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"QUICKPOUR_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"QUICKPOUR_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QUICKPOUR_DB_DSN"`
	Driver string `envconfig:"QUICKPOUR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QUICKPOUR_DB_HOST"`
	LegacyPort     int    `envconfig:"QUICKPOUR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QUICKPOUR_DB_USER"`
	LegacyPassword string `envconfig:"QUICKPOUR_DB_PASSWORD"`
	LegacyName     string `envconfig:"QUICKPOUR_DB_NAME"`
	LegacySSLMode  string `envconfig:"QUICKPOUR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUICKPOUR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUICKPOUR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUICKPOUR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUICKPOUR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUICKPOUR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QUICKPOUR_REDIS_ADDR"`
	Password     string        `envconfig:"QUICKPOUR_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUICKPOUR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUICKPOUR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUICKPOUR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUICKPOUR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUICKPOUR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUICKPOUR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"QUICKPOUR_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"QUICKPOUR_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"QUICKPOUR_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"QUICKPOUR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"QUICKPOUR_PUBSUB_ORDERS_TOPIC" default:"qp-order-events"`
	OrdersSubscription string `envconfig:"QUICKPOUR_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"QUICKPOUR_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"QUICKPOUR_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"QUICKPOUR_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"QUICKPOUR_OUTBOX_IDEMPOTENCY_TTL" default:"168h"`
}

type DriversConfig struct {
	LocationCacheTTL time.Duration `envconfig:"QUICKPOUR_DRIVER_LOCATION_CACHE_TTL" default:"15s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
