package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PARCINFO"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env variable names referenced from tests and tooling.
const (
	EnvAppEnv   = "PARCINFO_APP_ENV"
	EnvPort     = "PARCINFO_APP_PORT"
	EnvDBDSN    = "PARCINFO_DB_DSN"
	EnvRedisURL = "PARCINFO_REDIS_URL"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Signatures   SignatureConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PARCINFO_APP_ENV" required:"true"`
	Port         string `envconfig:"PARCINFO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARCINFO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARCINFO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARCINFO_DB_DSN"`
	Driver string `envconfig:"PARCINFO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PARCINFO_DB_HOST"`
	Port     int    `envconfig:"PARCINFO_DB_PORT" default:"5432"`
	User     string `envconfig:"PARCINFO_DB_USER"`
	Password string `envconfig:"PARCINFO_DB_PASSWORD"`
	Name     string `envconfig:"PARCINFO_DB_NAME"`
	SSLMode  string `envconfig:"PARCINFO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARCINFO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARCINFO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARCINFO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARCINFO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from the discrete fields when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either PARCINFO_DB_DSN or PARCINFO_DB_HOST/USER/NAME must be set")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PARCINFO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARCINFO_REDIS_ADDR"`
	Password     string        `envconfig:"PARCINFO_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARCINFO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARCINFO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARCINFO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARCINFO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARCINFO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARCINFO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SignatureConfig struct {
	Dir       string `envconfig:"PARCINFO_SIGNATURE_DIR" default:"uploads/signatures"`
	PublicURL string `envconfig:"PARCINFO_SIGNATURE_PUBLIC_URL" default:"/uploads/signatures"`
	MaxBytes  int64  `envconfig:"PARCINFO_SIGNATURE_MAX_BYTES" default:"1048576"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PARCINFO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PARCINFO_AUTO_MIGRATE" default:"false"`
}
