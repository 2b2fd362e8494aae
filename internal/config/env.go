package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3100"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
}

type DatabaseEnv struct {
	// Driver is "sqlite" or "postgres".
	Driver          string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"DB_DSN" default:"taskroster.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type AuthEnv struct {
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer       string        `envconfig:"JWT_ISSUER" default:"taskroster"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"24h"`
}

type RedisEnv struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".taskroster/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"taskroster/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type RateLimitEnv struct {
	PerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	Burst     int `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

type Env struct {
	BaseEnv
	DatabaseEnv
	AuthEnv
	RedisEnv
	StorageEnv
	RateLimitEnv
}

const namespace = "TASKROSTER"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// LoadDatabaseEnv loads only the database settings, for tools that do not
// serve requests.
func LoadDatabaseEnv() (*DatabaseEnv, error) {
	var env DatabaseEnv
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *Env) validate() error {
	switch e.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported %s_DB_DRIVER %q", namespace, e.Driver)
	}
	switch e.StorageEnv.Type {
	case "local":
	case "s3":
		if e.S3Bucket == "" {
			return fmt.Errorf("%s_S3_BUCKET is required when %s_STORAGE_TYPE=s3", namespace, namespace)
		}
	default:
		return fmt.Errorf("unsupported %s_STORAGE_TYPE %q", namespace, e.StorageEnv.Type)
	}
	if len(e.JWTSecret) < 16 {
		return fmt.Errorf("%s_JWT_SECRET must be at least 16 bytes", namespace)
	}
	return nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
