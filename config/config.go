package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type RotationConfig struct {
	Cooldown string `mapstructure:"cooldown"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type AccountConfig struct {
	Credential string `mapstructure:"credential"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Rotation RotationConfig  `mapstructure:"rotation"`
	Store    StoreConfig     `mapstructure:"store"`
	Accounts []AccountConfig `mapstructure:"accounts"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

// CooldownWindow returns the parsed rotation cooldown. Call only after
// Validate has accepted the configuration.
func (c *Config) CooldownWindow() time.Duration {
	d, err := time.ParseDuration(c.Rotation.Cooldown)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Credentials returns the configured credential blobs in configuration order.
func (c *Config) Credentials() []string {
	creds := make([]string, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		creds = append(creds, a.Credential)
	}
	return creds
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("rotation.cooldown", "60s")
	viper.SetDefault("store.backend", StoreBackendRedis)
	viper.SetDefault("store.redis.address", "localhost:6379")
	viper.SetDefault("store.redis.db", 0)
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Error("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Rotation,
			validation.Required,
			validation.By(func(value interface{}) error {
				rc, ok := value.(RotationConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a RotationConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.Cooldown,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Store,
			validation.Required,
			validation.By(validateStoreConfig),
		),
		validation.Field(&c.Accounts,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateAccountConfig)),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 60s, 5m)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be a positive duration")
	}

	return nil
}

func validateStoreConfig(value interface{}) error {
	sc, ok := value.(StoreConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a StoreConfig")
	}

	if err := validation.Validate(sc.Backend,
		validation.Required,
		validation.In(StoreBackendRedis, StoreBackendMemory),
	); err != nil {
		return validation.NewError("validation_invalid_backend", "backend must be redis or memory")
	}

	if sc.Backend == StoreBackendRedis {
		if err := validateHostPort(sc.Redis.Address); err != nil {
			return err
		}
	}

	return nil
}

func validateAccountConfig(value interface{}) error {
	account, ok := value.(AccountConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an AccountConfig")
	}

	if account.Credential == "" {
		return validation.NewError("validation_empty_credential", "account credential cannot be empty")
	}

	return nil
}
