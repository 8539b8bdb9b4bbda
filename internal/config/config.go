package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Ingress        IngressConfig        `mapstructure:"ingress"`
	Broker         BrokerConfig         `mapstructure:"broker"`
	Ledger         LedgerConfig         `mapstructure:"ledger"`
	Intent         IntentConfig         `mapstructure:"intent"`
	Chat           ChatConfig           `mapstructure:"chat"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	Debug          bool                 `mapstructure:"debug"`
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

// IngressConfig selects how chat events reach the bot. The two modes are
// mutually exclusive per deployment: "push" serves POST /bot, "pull" runs a
// single background subscription worker against the chat-events topic.
type IngressConfig struct {
	Mode string `mapstructure:"mode"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	ChatEventsTopic string   `mapstructure:"chat_events_topic"`
	RecordsTopic    string   `mapstructure:"records_topic"`
	GroupIDPrefix   string   `mapstructure:"group_id_prefix"`
}

type LedgerConfig struct {
	Postgres      PostgresConfig `mapstructure:"postgres"`
	RunMigrations bool           `mapstructure:"run_migrations"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// IntentConfig points at the intent-recognition service. AppID and Key are
// the credentials of the published language-understanding app.
type IntentConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	AppID          string        `mapstructure:"app_id"`
	Key            string        `mapstructure:"key"`
	TimeoutSeconds time.Duration `mapstructure:"timeout_seconds"`
}

type ChatConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Token          string        `mapstructure:"token"`
	TimeoutSeconds time.Duration `mapstructure:"timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
