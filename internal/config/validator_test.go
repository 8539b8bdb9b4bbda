package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 30,
		},
		Ingress: IngressConfig{Mode: "push"},
		Broker: BrokerConfig{
			Type: "kafka",
			Kafka: KafkaConfig{
				Brokers:         []string{"localhost:9092"},
				ChatEventsTopic: "chat-events",
				RecordsTopic:    "chat-interactions",
			},
		},
	}
}

func TestValidateStaticValidConfig(t *testing.T) {
	assert.NoError(t, ValidateStatic(validTestConfig()))
}

func TestValidateStatic(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{
			name:   "invalid port",
			mutate: func(cfg *Config) { cfg.Server.Port = 0 },
		},
		{
			name:   "unknown ingress mode",
			mutate: func(cfg *Config) { cfg.Ingress.Mode = "webhook" },
		},
		{
			name:   "unknown broker type",
			mutate: func(cfg *Config) { cfg.Broker.Type = "rabbitmq" },
		},
		{
			name:   "no kafka brokers",
			mutate: func(cfg *Config) { cfg.Broker.Kafka.Brokers = nil },
		},
		{
			name:   "empty chat events topic",
			mutate: func(cfg *Config) { cfg.Broker.Kafka.ChatEventsTopic = "" },
		},
		{
			name:   "postgres host without dbname",
			mutate: func(cfg *Config) { cfg.Ledger.Postgres = PostgresConfig{Host: "db", Port: 5432, User: "bot"} },
		},
		{
			name:   "invalid postgres sslmode",
			mutate: func(cfg *Config) {
				cfg.Ledger.Postgres = PostgresConfig{Host: "db", Port: 5432, User: "bot", DBName: "sesheta", SSLMode: "maybe"}
			},
		},
		{
			name:   "intent endpoint without key",
			mutate: func(cfg *Config) { cfg.Intent = IntentConfig{Endpoint: "https://intent.example.com", AppID: "app"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateStatic(cfg))
		})
	}
}

func TestValidateStaticOptionalSectionsMayBeEmpty(t *testing.T) {
	cfg := validTestConfig()
	cfg.Ledger = LedgerConfig{}
	cfg.Intent = IntentConfig{}

	assert.NoError(t, ValidateStatic(cfg))
}
