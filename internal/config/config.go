package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/loidinhm31/cham-lang-sub002/pkg/validator"
)

type Config struct {
	Env      string         `mapstructure:"env" validate:"oneof=development production staging"`
	HTTP     HTTPConfig     `mapstructure:"http" validate:"required"`
	DB       DBConfig       `mapstructure:"db" validate:"required"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	AI       AIConfig       `mapstructure:"ai"`
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"min=1"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	// Path is the sqlite database file; ignored for postgres.
	Path string `mapstructure:"path"`
	Conn DBConn `mapstructure:"conn"`
	Cfg  DBCfg  `mapstructure:"cfg"`
}

type DBConn struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSL      string `mapstructure:"ssl"`
}

type DBCfg struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLifeTime time.Duration `mapstructure:"conn_max_life_time" validate:"min=0"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"min=0"`
}

type SnapshotConfig struct {
	// At is the local time of day the daily statistics snapshot runs,
	// in HH:MM form.
	At      string `mapstructure:"at"`
	Enabled bool   `mapstructure:"enabled"`
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Init reads configs/<CONFIG_NAME>.yaml (default "default"), binds the
// environment overrides, and validates the result.
func Init() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	configName := os.Getenv("CONFIG_NAME")
	if configName == "" {
		configName = "default"
	}

	v.AddConfigPath("configs")
	v.SetConfigName(configName)

	v.SetDefault("env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "data/chamlang.db")
	v.SetDefault("db.cfg.max_open_conns", 1)
	v.SetDefault("db.cfg.max_idle_conns", 1)
	v.SetDefault("snapshot.at", "03:00")
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("ai.model", "claude-sonnet-4-5")

	binds := map[string]string{
		"http.addr":        "HTTP_ADDR",
		"db.driver":        "DB_DRIVER",
		"db.path":          "DB_PATH",
		"db.conn.host":     "DB_HOST",
		"db.conn.port":     "DB_PORT",
		"db.conn.user":     "DB_USER",
		"db.conn.password": "DB_PASSWORD",
		"db.conn.name":     "DB_NAME",
		"db.conn.ssl":      "DB_SSL",
		"ai.api_key":       "ANTHROPIC_API_KEY",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
