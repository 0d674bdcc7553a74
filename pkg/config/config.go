package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Web          WebConfig
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
	Env          string `envconfig:"MATJAR_APP_ENV" required:"true"`
	Port         string `envconfig:"MATJAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MATJAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MATJAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MATJAR_DB_DSN"`
	Driver string `envconfig:"MATJAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MATJAR_DB_HOST"`
	LegacyPort     int    `envconfig:"MATJAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MATJAR_DB_USER"`
	LegacyPassword string `envconfig:"MATJAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"MATJAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"MATJAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MATJAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MATJAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MATJAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MATJAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MATJAR_REDIS_URL"`
	Address      string        `envconfig:"MATJAR_REDIS_ADDR"`
	Password     string        `envconfig:"MATJAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"MATJAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MATJAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MATJAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MATJAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MATJAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MATJAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The cart API
// runs without redis; idempotency replay is simply skipped in that case.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// JWTConfig drives the optional bearer-token check on the cart API. An empty
// secret disables verification entirely.
type JWTConfig struct {
	Secret string `envconfig:"MATJAR_JWT_SECRET"`
	Issuer string `envconfig:"MATJAR_JWT_ISSUER" default:"matjar"`
}

type WebConfig struct {
	Port      string `envconfig:"MATJAR_WEB_PORT" default:"8081"`
	StaticDir string `envconfig:"MATJAR_WEB_STATIC_DIR" default:"web/dist"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"MATJAR_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"MATJAR_SQLITE_PATH" default:"matjar.db"`
	AutoMigrate bool   `envconfig:"MATJAR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"MATJAR_DB_HOST": db.LegacyHost,
		"MATJAR_DB_USER": db.LegacyUser,
		"MATJAR_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"MATJAR_DB_HOST", "MATJAR_DB_USER", "MATJAR_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either MATJAR_DB_DSN or %s are required", strings.Join(missing, ", "))
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
