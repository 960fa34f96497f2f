// Package config loads application settings from defaults, an optional
// stocksurge.yaml, a .env file and STOCKSURGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/market"
)

// Config holds all configuration for the application.
type Config struct {
	Game  GameConfig  `mapstructure:"game"`
	Log   LogConfig   `mapstructure:"log"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Redis RedisConfig `mapstructure:"redis"`
}

type GameConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	InitialCash  float64       `mapstructure:"initial_cash"`
	Seed         int64         `mapstructure:"seed"`
	Companies    []string      `mapstructure:"companies"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configuration. path may name a config file; empty searches the
// working directory for stocksurge.yaml and tolerates its absence.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("stocksurge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("STOCKSURGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultConfig()

	v.SetDefault("game.tick_interval", def.RunnerConfig.TickInterval)
	v.SetDefault("game.initial_cash", def.LedgerConfig.InitialCash)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.companies", def.MarketConfig.Companies)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")

	v.SetDefault("http.addr", ":8080")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
}

func (c *Config) validate() error {
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("game.tick_interval must be positive, got %v", c.Game.TickInterval)
	}
	if c.Game.InitialCash <= 0 {
		return fmt.Errorf("game.initial_cash must be positive, got %v", c.Game.InitialCash)
	}
	if len(c.Game.Companies) == 0 {
		return errors.New("game.companies cannot be empty")
	}
	if len(c.Game.Companies) != len(market.Companies) {
		return fmt.Errorf("game.companies must name exactly %d companies, got %d", len(market.Companies), len(c.Game.Companies))
	}
	seen := make(map[string]bool, len(c.Game.Companies))
	for _, name := range c.Game.Companies {
		if seen[name] {
			return fmt.Errorf("duplicate company %q", name)
		}
		seen[name] = true
	}
	return nil
}

// GameConfig maps the loaded settings onto a game.Config.
func (c *Config) GameConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = c.Game.Seed
	cfg.RunnerConfig.TickInterval = c.Game.TickInterval
	cfg.LedgerConfig.InitialCash = c.Game.InitialCash
	cfg.MarketConfig.Companies = append([]string(nil), c.Game.Companies...)
	return cfg
}
