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
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
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
	Env          string `envconfig:"SALESSYNC_APP_ENV" required:"true"`
	Port         string `envconfig:"SALESSYNC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SALESSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALESSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SALESSYNC_DB_DSN"`
	Driver string `envconfig:"SALESSYNC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALESSYNC_DB_HOST"`
	LegacyPort     int    `envconfig:"SALESSYNC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALESSYNC_DB_USER"`
	LegacyPassword string `envconfig:"SALESSYNC_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALESSYNC_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALESSYNC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALESSYNC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SALESSYNC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALESSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALESSYNC_DB_CONN_MAX_IDLE_TIME" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SALESSYNC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SALESSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"SALESSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALESSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALESSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALESSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALESSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALESSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALESSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig carries the read-cache and sequence-counter TTLs. The sequence TTL
// must outlive a calendar month so per-month code counters never reset mid-month.
type CacheConfig struct {
	PromotionTTL time.Duration `envconfig:"SALESSYNC_CACHE_PROMOTION_TTL" default:"1h"`
	CampaignTTL  time.Duration `envconfig:"SALESSYNC_CACHE_CAMPAIGN_TTL" default:"5m"`
	ROITTL       time.Duration `envconfig:"SALESSYNC_CACHE_ROI_TTL" default:"1h"`
	SequenceTTL  time.Duration `envconfig:"SALESSYNC_CACHE_SEQUENCE_TTL" default:"744h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALESSYNC_AUTO_MIGRATE" default:"false"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"SALESSYNC_IDEMPOTENCY_TTL" default:"24h"`
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
