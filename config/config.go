package config

import (
	"time"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/store"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Security SecurityConfig `mapstructure:"security"`
	Store    store.Config   `mapstructure:"store"`
	Cache    cache.Config   `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	// AllowedOrigins lists the WebSocket/SSE origins that are permitted.
	// An empty slice allows all origins (useful for local development only).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GameConfig struct {
	ProductionIntervalS int  `mapstructure:"production_interval_s"`
	ChatHistory         int  `mapstructure:"chat_history"`
	BattleHistory       int  `mapstructure:"battle_history"`
	ClampLoot           bool `mapstructure:"clamp_loot"`
	LeaderboardSize     int  `mapstructure:"leaderboard_size"`
	MapSize             int  `mapstructure:"map_size"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("security.jwt_ttl_h", "720h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("store.mode", "file")
	v.SetDefault("store.file_path", "./data/state.json")
	v.SetDefault("store.sqlite_path", "./data/state.db")
	v.SetDefault("store.mysql_max_open", 50)
	v.SetDefault("store.mysql_max_idle", 10)
	v.SetDefault("cache.gc_interval", "30s")
	v.SetDefault("cache.pubsub_buf", 256)
	v.SetDefault("game.production_interval_s", 60)
	v.SetDefault("game.chat_history", 100)
	v.SetDefault("game.battle_history", 500)
	v.SetDefault("game.clamp_loot", false)
	v.SetDefault("game.leaderboard_size", 20)
	v.SetDefault("game.map_size", 1000)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
