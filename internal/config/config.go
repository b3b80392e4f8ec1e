package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment                   string        `mapstructure:"APP_ENV"`
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	TokenTTL                      time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost                    int           `mapstructure:"BCRYPT_COST"`
	Timezone                      string        `mapstructure:"TIMEZONE"`
	ReservationPrefix             string        `mapstructure:"RESERVATION_PREFIX"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	RabbitMQURL                   string        `mapstructure:"RABBITMQ_URL"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                 string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                       int           `mapstructure:"REDIS_DB"`
	AuthRateLimit                 int           `mapstructure:"AUTH_RATE_LIMIT"`
	AuthRateWindow                time.Duration `mapstructure:"AUTH_RATE_WINDOW"`

	// Location is the park's timezone. Calendar-day rules are evaluated in it.
	Location *time.Location `mapstructure:"-"`
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

var defaults = map[string]any{
	"APP_ENV":                          "development",
	"PORT":                             "8080",
	"DATABASE_DRIVER":                  "sqlite",
	"DATABASE_DSN":                     "zombieland.db",
	"JWT_SECRET":                       "",
	"TOKEN_TTL":                        "24h",
	"BCRYPT_COST":                      10,
	"TIMEZONE":                         "Europe/Paris",
	"RESERVATION_PREFIX":               "ZL",
	"FRONTEND_URL":                     "http://localhost:5173",
	"ENABLE_CORS":                      false,
	"DISCORD_BOT_TOKEN":                "",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID": "",
	"RABBITMQ_URL":                     "",
	"REDIS_ADDR":                       "",
	"REDIS_PASSWORD":                   "",
	"REDIS_DB":                         0,
	"AUTH_RATE_LIMIT":                  10,
	"AUTH_RATE_WINDOW":                 "1m",
}

const devJWTSecret = "zombieland-dev-secret"

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Ignoring .env file: %v", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = devJWTSecret
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return &cfg, nil
}

func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	return cfg
}
