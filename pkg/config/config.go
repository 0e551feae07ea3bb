package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "merakimart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"MERAKIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"MERAKIMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MERAKIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERAKIMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MERAKIMART_DB_DSN"`

	Host     string `envconfig:"MERAKIMART_DB_HOST"`
	Port     int    `envconfig:"MERAKIMART_DB_PORT" default:"5432"`
	User     string `envconfig:"MERAKIMART_DB_USER"`
	Password string `envconfig:"MERAKIMART_DB_PASSWORD"`
	Name     string `envconfig:"MERAKIMART_DB_NAME"`
	SSLMode  string `envconfig:"MERAKIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERAKIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERAKIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERAKIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERAKIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERAKIMART_REDIS_URL"`
	Address      string        `envconfig:"MERAKIMART_REDIS_ADDR"`
	Password     string        `envconfig:"MERAKIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERAKIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERAKIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERAKIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERAKIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERAKIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERAKIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MERAKIMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MERAKIMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MERAKIMART_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CheckoutConfig struct {
	// AppliedCouponTTL bounds how long an applied coupon survives in the
	// session store without the customer completing checkout.
	AppliedCouponTTL time.Duration `envconfig:"MERAKIMART_CHECKOUT_APPLIED_COUPON_TTL" default:"24h"`
	SettingsCacheTTL time.Duration `envconfig:"MERAKIMART_CHECKOUT_SETTINGS_CACHE_TTL" default:"5m"`
	CouponCacheTTL   time.Duration `envconfig:"MERAKIMART_CHECKOUT_COUPON_CACHE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MERAKIMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"MERAKIMART_DB_HOST": db.Host,
		"MERAKIMART_DB_USER": db.User,
		"MERAKIMART_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either MERAKIMART_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
