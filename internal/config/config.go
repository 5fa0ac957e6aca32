package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	Env           string
	LogLevel      string
	DBDriver      string
	DatabaseDSN   string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	ResetDB       bool
	SwaggerHost   string
	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	setDefaults()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	return &Config{
		ServerPort:    viper.GetString("SERVER_PORT"),
		Env:           env,
		LogLevel:      viper.GetString("LOG_LEVEL"),
		DBDriver:      viper.GetString("DB_DRIVER"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		RedisPass:     viper.GetString("REDIS_PASSWORD"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		TokenTTL:      viper.GetDuration("TOKEN_TTL"),
		CORSOrigins:   splitList(viper.GetString("CORS_ORIGINS")),
		ResetDB:       viper.GetBool("RESET_DB"),
		SwaggerHost:   viper.GetString("SWAGGER_HOST"),
		DBMaxOpen:     viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdle:     viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
	}
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", "mysql")
	viper.SetDefault("DATABASE_DSN", "user:password@tcp(localhost:3306)/clinops?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TOKEN_TTL", "168h")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RESET_DB", false)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
