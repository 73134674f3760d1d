package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Catalog       CatalogConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gemini        GeminiConfig
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
	Env          string `envconfig:"SMARTINV_APP_ENV" default:"dev"`
	Port         string `envconfig:"SMARTINV_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"SMARTINV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTINV_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SMARTINV_DB_DSN"`
	Driver string `envconfig:"SMARTINV_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SMARTINV_DB_HOST"`
	LegacyPort     int    `envconfig:"SMARTINV_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SMARTINV_DB_USER"`
	LegacyPassword string `envconfig:"SMARTINV_DB_PASSWORD"`
	LegacyName     string `envconfig:"SMARTINV_DB_NAME"`
	LegacySSLMode  string `envconfig:"SMARTINV_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SMARTINV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SMARTINV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SMARTINV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMARTINV_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// LockTimeout bounds how long a stock adjustment waits on a contended
	// product row before the store reports lock_not_available.
	LockTimeout time.Duration `envconfig:"SMARTINV_DB_LOCK_TIMEOUT" default:"5s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SMARTINV_REDIS_URL" default:"redis://localhost:6379/0"`
	Address      string        `envconfig:"SMARTINV_REDIS_ADDR"`
	Password     string        `envconfig:"SMARTINV_REDIS_PASSWORD"`
	DB           int           `envconfig:"SMARTINV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SMARTINV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMARTINV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMARTINV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMARTINV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMARTINV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SMARTINV_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SMARTINV_JWT_ISSUER" default:"smartinv"`
	ExpirationMinutes int    `envconfig:"SMARTINV_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SMARTINV_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SMARTINV_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SMARTINV_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SMARTINV_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SMARTINV_ARGON_KEY_LEN" default:"32"`
}

type CatalogConfig struct {
	// ListTTL is how long the cached product list stays valid when no
	// writer invalidates it first.
	ListTTL time.Duration `envconfig:"SMARTINV_CATALOG_LIST_TTL" default:"5m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SMARTINV_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"SMARTINV_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SMARTINV_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SMARTINV_AUTO_MIGRATE" default:"false"`
	AutoSeed    bool `envconfig:"SMARTINV_AUTO_SEED" default:"true"`
}

type GeminiConfig struct {
	APIKey string `envconfig:"SMARTINV_GEMINI_API_KEY"`
	Model  string `envconfig:"SMARTINV_GEMINI_MODEL" default:"gemini-2.0-flash"`
}

// Configured reports whether the AI credential is present.
func (g GeminiConfig) Configured() bool {
	return strings.TrimSpace(g.APIKey) != ""
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
