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
	JWT          JWTConfig
	Password     PasswordConfig
	Media        MediaConfig
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
	Env          string `envconfig:"UTSAVHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"UTSAVHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"UTSAVHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UTSAVHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"UTSAVHUB_DB_DSN"`
	Driver string `envconfig:"UTSAVHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"UTSAVHUB_DB_HOST"`
	Port     int    `envconfig:"UTSAVHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"UTSAVHUB_DB_USER"`
	Password string `envconfig:"UTSAVHUB_DB_PASSWORD"`
	Name     string `envconfig:"UTSAVHUB_DB_NAME"`
	SSLMode  string `envconfig:"UTSAVHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"UTSAVHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UTSAVHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UTSAVHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UTSAVHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	query := url.Values{}
	query.Set("sslmode", d.SSLMode)
	dsn.RawQuery = query.Encode()
	d.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"UTSAVHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"UTSAVHUB_REDIS_ADDR"`
	Password     string        `envconfig:"UTSAVHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"UTSAVHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UTSAVHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UTSAVHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UTSAVHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UTSAVHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UTSAVHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"UTSAVHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"UTSAVHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"UTSAVHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"UTSAVHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"UTSAVHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"UTSAVHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"UTSAVHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"UTSAVHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"UTSAVHUB_ARGON_KEY_LEN" default:"32"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"UTSAVHUB_MEDIA_MAX_UPLOAD_BYTES" default:"5242880"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"UTSAVHUB_AUTO_MIGRATE" default:"false"`
}
