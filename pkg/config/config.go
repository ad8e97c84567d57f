package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	DB             DBConfig
	Redis          RedisConfig
	VisitorToken   VisitorTokenConfig
	LoginRateLimit LoginRateLimitConfig
	Content        ContentConfig
	Checkout       CheckoutConfig
	FeatureFlags   FeatureFlagsConfig
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
	Env          string `envconfig:"MERIDIAN_APP_ENV" required:"true"`
	Port         string `envconfig:"MERIDIAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERIDIAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERIDIAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERIDIAN_DB_DSN"`
	Driver string `envconfig:"MERIDIAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MERIDIAN_DB_HOST"`
	LegacyPort     int    `envconfig:"MERIDIAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERIDIAN_DB_USER"`
	LegacyPassword string `envconfig:"MERIDIAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERIDIAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERIDIAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERIDIAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERIDIAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERIDIAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERIDIAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERIDIAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MERIDIAN_REDIS_ADDR"`
	Password     string        `envconfig:"MERIDIAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERIDIAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERIDIAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERIDIAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERIDIAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERIDIAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERIDIAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// VisitorTokenConfig drives the signed cookie that identifies a browser
// profile across requests. Tokens carry no expiry; the visitor state they
// point at lives until explicitly cleared.
type VisitorTokenConfig struct {
	Secret     string `envconfig:"MERIDIAN_VISITOR_TOKEN_SECRET" required:"true"`
	Issuer     string `envconfig:"MERIDIAN_VISITOR_TOKEN_ISSUER" required:"true"`
	CookieName string `envconfig:"MERIDIAN_VISITOR_COOKIE_NAME" default:"mp_visitor"`
}

type LoginRateLimitConfig struct {
	Window     time.Duration `envconfig:"MERIDIAN_LOGIN_RATE_LIMIT_WINDOW" default:"1m"`
	EmailLimit int           `envconfig:"MERIDIAN_LOGIN_RATE_LIMIT_EMAIL_LIMIT" default:"5"`
	IPLimit    int           `envconfig:"MERIDIAN_LOGIN_RATE_LIMIT_IP_LIMIT" default:"20"`
}

// ContentConfig points at the external headless content store.
type ContentConfig struct {
	BaseURL        string        `envconfig:"MERIDIAN_CONTENT_BASE_URL" required:"true"`
	Dataset        string        `envconfig:"MERIDIAN_CONTENT_DATASET" default:"production"`
	Token          string        `envconfig:"MERIDIAN_CONTENT_TOKEN"`
	RequestTimeout time.Duration `envconfig:"MERIDIAN_CONTENT_REQUEST_TIMEOUT" default:"10s"`
	RetryAttempts  int           `envconfig:"MERIDIAN_CONTENT_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"MERIDIAN_CONTENT_RETRY_BASE_DELAY" default:"200ms"`
}

// CheckoutConfig holds the hosted payment page used when a cart item carries
// no checkout link of its own.
type CheckoutConfig struct {
	FallbackURL string `envconfig:"MERIDIAN_CHECKOUT_FALLBACK_URL" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MERIDIAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MERIDIAN_AUTO_MIGRATE" default:"false"`
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
