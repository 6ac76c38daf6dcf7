package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	AWS struct {
		Region string `mapstructure:"region"`
		// Endpoint points the DynamoDB client at a local emulator.
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"aws"`

	Auth struct {
		UserPoolID      string        `mapstructure:"user_pool_id"`
		ClientID        string        `mapstructure:"client_id"`
		IssuerURL       string        `mapstructure:"issuer_url"`
		CookieName      string        `mapstructure:"cookie_name"`
		ClockSkew       time.Duration `mapstructure:"clock_skew"`
		KeySetCacheSize int           `mapstructure:"key_set_cache_size"`
		JWKSTimeout     time.Duration `mapstructure:"jwks_timeout"`
		JWKSRetryCount  int           `mapstructure:"jwks_retry_count"`
	} `mapstructure:"auth"`

	Gateway struct {
		AccountID         string        `mapstructure:"account_id"`
		APIID             string        `mapstructure:"api_id"`
		Stage             string        `mapstructure:"stage"`
		DecisionCacheTTL  time.Duration `mapstructure:"decision_cache_ttl"`
		DecisionCacheSize int           `mapstructure:"decision_cache_size"`
	} `mapstructure:"gateway"`

	Store struct {
		Driver    string `mapstructure:"driver"`
		TableName string `mapstructure:"table_name"`
		Redis     struct {
			URL      string `mapstructure:"url"`
			PoolSize int    `mapstructure:"pool_size"`
		} `mapstructure:"redis"`
	} `mapstructure:"store"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverRedis    = "redis"
)

// lambdaEnv maps the variable names the functions are deployed with onto
// config keys. The prefixed form still wins when both are set.
//
//nolint:gochecknoglobals // static lookup table
var lambdaEnv = map[string]string{
	"auth.user_pool_id": "USER_POOL_ID",
	"auth.client_id":    "CLIENT_ID",
	"aws.region":        "REGION",
	"store.table_name":  "TABLE_NAME",
}

const envPrefix = "ALBUM_API"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("aws.region", "eu-west-1")
	v.SetDefault("aws.endpoint", "")

	v.SetDefault("auth.user_pool_id", "")
	v.SetDefault("auth.client_id", "")
	v.SetDefault("auth.issuer_url", "")
	v.SetDefault("auth.cookie_name", "token")
	v.SetDefault("auth.clock_skew", time.Duration(0))
	v.SetDefault("auth.key_set_cache_size", 8)
	v.SetDefault("auth.jwks_timeout", 5*time.Second)
	v.SetDefault("auth.jwks_retry_count", 2)

	v.SetDefault("gateway.account_id", "000000000000")
	v.SetDefault("gateway.api_id", "local")
	v.SetDefault("gateway.stage", "dev")
	v.SetDefault("gateway.decision_cache_ttl", time.Duration(0))
	v.SetDefault("gateway.decision_cache_size", 1024)

	v.SetDefault("store.driver", StoreDriverDynamoDB)
	v.SetDefault("store.table_name", "Albums")
	v.SetDefault("store.redis.url", "redis://localhost:6379/0")
	v.SetDefault("store.redis.pool_size", 10)

	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.tracing_endpoint_url", "")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.log_source", false)
}

// Load reads config.yaml (optional), the APP_ENV overlay and the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range lambdaEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			slog.Default().Info("No environment-specific config (optional)", slog.String("env", env))
		} else {
			slog.Default().Info("Environment-specific config loaded", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Default().Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// Validate checks the settings every entry point depends on.
func (c *Config) Validate() error {
	if c.Auth.IssuerURL == "" && (c.Auth.UserPoolID == "" || c.AWS.Region == "") {
		return errors.New("config: auth.user_pool_id and aws.region are required when auth.issuer_url is not set")
	}
	if c.Auth.CookieName == "" {
		return errors.New("config: auth.cookie_name must not be empty")
	}
	if c.Gateway.DecisionCacheTTL < 0 {
		return errors.New("config: gateway.decision_cache_ttl must not be negative")
	}
	switch c.Store.Driver {
	case StoreDriverDynamoDB:
		if c.Store.TableName == "" {
			return errors.New("config: store.table_name is required for the dynamodb driver")
		}
	case StoreDriverRedis:
		if c.Store.Redis.URL == "" {
			return errors.New("config: store.redis.url is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
