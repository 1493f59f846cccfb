package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeServer     = "server"
	ModeServerless = "serverless"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	Mode        string
	Version     string

	// Migrations run under this bound, on startup or on the first request
	MigrationTimeout time.Duration
	DBMaxConns       int32

	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	APIRateLimit  int
	APIRateWindow time.Duration

	JWTSecret string

	KafkaBrokers []string
	KafkaTopic   string

	AllowedOrigin      string
	ExposeErrorDetails bool
}

// Serverless reports whether the process serves one request per invocation
func (c *Config) Serverless() bool {
	return c.Mode == ModeServerless
}

// Load reads configuration from the environment (and a local .env if present)
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

// JWTSecret loads only the token signing secret, for tools that never touch
// the database
func JWTSecret() string {
	_ = godotenv.Load()
	return newViper().GetString("JWT_SECRET")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_MODE", "")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("MIGRATION_TIMEOUT_SECONDS", 30)
	v.SetDefault("DB_MAX_CONNS", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("API_RATE_LIMIT", 120)
	v.SetDefault("API_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("KAFKA_TOPIC", "todo-events")
	v.SetDefault("EXPOSE_ERROR_DETAILS", true)

	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	mode, err := resolveMode(v)
	if err != nil {
		return nil, err
	}

	logJSON := v.GetBool("LOG_JSON")
	if mode == ModeServerless {
		// cloud log collectors expect one JSON object per line
		logJSON = true
	}

	return &Config{
		AppPort:            v.GetString("APP_PORT"),
		DatabaseURL:        dbURL,
		Mode:               mode,
		Version:            v.GetString("VERSION"),
		MigrationTimeout:   seconds(v, "MIGRATION_TIMEOUT_SECONDS"),
		DBMaxConns:         v.GetInt32("DB_MAX_CONNS"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogJSON:            logJSON,
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		CacheTTL:           seconds(v, "CACHE_TTL_SECONDS"),
		APIRateLimit:       v.GetInt("API_RATE_LIMIT"),
		APIRateWindow:      seconds(v, "API_RATE_WINDOW_SECONDS"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		AllowedOrigin:      v.GetString("ALLOWED_ORIGIN"),
		ExposeErrorDetails: v.GetBool("EXPOSE_ERROR_DETAILS"),
	}, nil
}

// resolveMode honours APP_MODE and falls back to detecting a Lambda runtime
func resolveMode(v *viper.Viper) (string, error) {
	switch mode := strings.ToLower(v.GetString("APP_MODE")); mode {
	case ModeServer, ModeServerless:
		return mode, nil
	case "":
		if v.GetString("AWS_EXECUTION_ENV") != "" || v.GetString("AWS_LAMBDA_FUNCTION_NAME") != "" {
			return ModeServerless, nil
		}
		return ModeServer, nil
	default:
		return "", errors.New("APP_MODE must be \"server\" or \"serverless\", got " + mode)
	}
}

func seconds(v *viper.Viper, key string) time.Duration {
	n := v.GetInt(key)
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Second
}

// splitList parses comma separated values (KAFKA_BROKERS=host1:9092,host2:9092)
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
