package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Observ   ObservabilityConfig
	GraphQL  GraphQLConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ObservabilityConfig struct {
	TracingEnabled bool
	JaegerEndpoint string
	SampleRatio    float64
}

type GraphQLConfig struct {
	Path         string
	Debug        bool
	DefaultLimit int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             getEnv("ENV", getEnv("APP_ENV", "development")),
			LogLevel:        getEnv("LOG_LEVEL", ""),
			CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			URL:             databaseURL(),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Observ: ObservabilityConfig{
			TracingEnabled: getEnvBool("TRACING_ENABLED", false),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			SampleRatio:    getEnvFloat("TRACING_SAMPLE_RATIO", 1),
		},
		GraphQL: GraphQLConfig{
			Path:         getEnv("GRAPHQL_PATH", "/graphql"),
			Debug:        getEnvBool("GRAPHQL_DEBUG", getEnvBool("APP_DEBUG", false)),
			DefaultLimit: getEnvInt("GRAPHQL_DEFAULT_LIMIT", 20),
		},
	}

	return cfg
}

// Log reports the loaded settings. Credentials are never logged.
func (c *Config) Log(logger *zap.Logger) {
	logger.Info("Config loaded",
		zap.String("env", c.Server.Env),
		zap.String("port", c.Server.Port),
		zap.String("graphql_path", c.GraphQL.Path),
		zap.Bool("graphql_debug", c.GraphQL.Debug),
		zap.Bool("tracing_enabled", c.Observ.TracingEnabled))
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from the DB_* variables
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	u := url.URL{
		Scheme: "postgres",
		User: url.UserPassword(
			getEnv("DB_USERNAME", "catalog"),
			getEnv("DB_PASSWORD", "secret"),
		),
		Host: fmt.Sprintf("%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path: "/" + getEnv("DB_DATABASE", "catalog"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultVal
}
