package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	// DBDriver is "mysql" or "sqlite".
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MySQLURL    string `mapstructure:"MYSQL_URL"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPass      string `mapstructure:"DB_PASS"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	SeedRooms   bool   `mapstructure:"SEED_ROOMS"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RoomCacheTTL  time.Duration `mapstructure:"ROOM_CACHE_TTL"`

	AuthRatePerMin int `mapstructure:"AUTH_RATE_PER_MIN"`

	// comma separated; these accounts get the admin role
	AdminEmails string `mapstructure:"ADMIN_EMAILS"`
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Origins splits CORS_ORIGINS on commas. Empty means any origin.
func (c Config) Origins() []string {
	origins := splitList(c.CORSOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c Config) Admins() []string {
	return splitList(c.AdminEmails)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MYSQL_URL", "")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "hotel_booking")
	v.SetDefault("SQLITE_PATH", "hotel_booking.db")
	v.SetDefault("SEED_ROOMS", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "72h")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROOM_CACHE_TTL", "30s")
	v.SetDefault("AUTH_RATE_PER_MIN", 30)
	v.SetDefault("ADMIN_EMAILS", "")
}

// Load reads .env (optional), an optional config.yaml, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Info(".env not found; continuing with environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver != "mysql" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWTSecret = "dev-secret-change-me"
		zap.L().Warn("JWT_SECRET not set, using development secret")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.AuthRatePerMin <= 0 {
		c.AuthRatePerMin = 30
	}
	return nil
}
