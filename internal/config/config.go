// Package config loads MoniFlow's runtime configuration from a config
// file plus environment variable overrides, following the teacher's
// viper wiring: SetDefault, then SetEnvPrefix/SetEnvKeyReplacer,
// AutomaticEnv, and a global Get() accessor.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every process's configuration. Each binary (collector,
// alertapi, evaluator, gateway) reads the sections it needs.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	TSDB     TSDBConfig     `mapstructure:"tsdb"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Batching BatchingConfig `mapstructure:"batching"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Notifier NotifierConfig `mapstructure:"notifier"`
}

// ServerConfig is the HTTP bind address for whichever API process is
// reading this config.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// RedisConfig addresses the HotCache and AlertStateStore backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MongoConfig addresses the RuleStore backend.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// SQLiteConfig addresses the Gateway service registry and notifier
// bookkeeping store.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// TSDBConfig addresses the time-series store the BatchFlusher ships
// batches to.
type TSDBConfig struct {
	URL    string `mapstructure:"url"`
	Org    string `mapstructure:"org"`
	Bucket string `mapstructure:"bucket"`
	Token  string `mapstructure:"token"`
}

// AuthConfig carries the Gateway's JWT verification parameters, per
// spec.md §6's SECRET_KEY/ALGORITHM/ACCESS_TOKEN_EXPIRE_MINUTES/
// REFRESH_TOKEN_EXPIRE_DAYS.
type AuthConfig struct {
	SecretKey              string `mapstructure:"secretKey"`
	Algorithm              string `mapstructure:"algorithm"`
	AccessTokenExpireMin   int    `mapstructure:"accessTokenExpireMinutes"`
	RefreshTokenExpireDays int    `mapstructure:"refreshTokenExpireDays"`
}

// BatchingConfig mirrors spec.md §6's LOG_BATCH_SIZE/LOG_FLUSH_INTERVAL/
// METRIC_BATCH_SIZE/METRIC_FLUSH_INTERVAL and REQUEST_TIMEOUT_SEC.
type BatchingConfig struct {
	MetricBatchSize     int `mapstructure:"metricBatchSize"`
	MetricFlushInterval int `mapstructure:"metricFlushInterval"` // seconds
	LogBatchSize        int `mapstructure:"logBatchSize"`
	LogFlushInterval    int `mapstructure:"logFlushInterval"` // seconds
	RequestTimeoutSec   int `mapstructure:"requestTimeoutSec"`
	IngestQueueCapacity int `mapstructure:"ingestQueueCapacity"`
}

// GatewayConfig carries the proxy's upstream timeout and rate limit.
type GatewayConfig struct {
	UpstreamTimeoutSec int     `mapstructure:"upstreamTimeoutSec"`
	RateLimitPerMinute float64 `mapstructure:"rateLimitPerMinute"`
}

// NotifierConfig carries the Evaluator's dispatch cooldown and the
// direct-email sender used for a rule's raw Recipients list in addition
// to its channels.
type NotifierConfig struct {
	DedupCooldownSec int    `mapstructure:"dedupCooldownSec"`
	EmailHost        string `mapstructure:"emailHost"`
	EmailPort        string `mapstructure:"emailPort"`
	EmailUsername    string `mapstructure:"emailUsername"`
	EmailPassword    string `mapstructure:"emailPassword"`
	EmailFrom        string `mapstructure:"emailFrom"`
	EncryptionKey    string `mapstructure:"encryptionKey"`
}

var cfg *Config

// Load reads configPath (if non-empty) and layers MONIFLOW_-prefixed
// environment variables on top, per spec.md §6's environment variable
// list.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "moniflow")
	v.SetDefault("sqlite.path", "./data/gateway.db")
	v.SetDefault("tsdb.url", "http://localhost:8086")
	v.SetDefault("tsdb.org", "moniflow")
	v.SetDefault("tsdb.bucket", "metrics")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.accessTokenExpireMinutes", 30)
	v.SetDefault("auth.refreshTokenExpireDays", 7)
	v.SetDefault("batching.metricBatchSize", 10)
	v.SetDefault("batching.metricFlushInterval", 5)
	v.SetDefault("batching.logBatchSize", 10)
	v.SetDefault("batching.logFlushInterval", 5)
	v.SetDefault("batching.requestTimeoutSec", 5)
	v.SetDefault("batching.ingestQueueCapacity", 10000)
	v.SetDefault("gateway.upstreamTimeoutSec", 5)
	v.SetDefault("gateway.rateLimitPerMinute", 120)
	v.SetDefault("notifier.dedupCooldownSec", 300)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("MONIFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the process-wide config loaded by Load.
func Get() *Config {
	return cfg
}
