package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"sesheta/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout_seconds", 30)
	viper.SetDefault("server.write_timeout_seconds", 30)
	viper.SetDefault("ingress.mode", constants.IngressModePush)
	viper.SetDefault("broker.type", "kafka")
	viper.SetDefault("broker.kafka.chat_events_topic", constants.DefaultChatEventsTopic)
	viper.SetDefault("broker.kafka.records_topic", constants.DefaultRecordsTopic)
	viper.SetDefault("broker.kafka.group_id_prefix", constants.ConsumerGroupPrefix)
	viper.SetDefault("logging.level", "info")
}

func bindEnvVariables() {
	viper.BindEnv("debug", "SESHETA_DEBUG")

	viper.BindEnv("ingress.mode", "INGRESS_MODE")

	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.chat_events_topic", "BROKER_KAFKA_CHAT_EVENTS_TOPIC")
	viper.BindEnv("broker.kafka.records_topic", "BROKER_KAFKA_RECORDS_TOPIC")
	viper.BindEnv("broker.kafka.group_id_prefix", "BROKER_KAFKA_GROUP_ID_PREFIX")

	viper.BindEnv("ledger.postgres.host", "LEDGER_POSTGRES_HOST")
	viper.BindEnv("ledger.postgres.port", "LEDGER_POSTGRES_PORT")
	viper.BindEnv("ledger.postgres.user", "LEDGER_POSTGRES_USER")
	viper.BindEnv("ledger.postgres.password", "LEDGER_POSTGRES_PASSWORD")
	viper.BindEnv("ledger.postgres.dbname", "LEDGER_POSTGRES_DBNAME")
	viper.BindEnv("ledger.postgres.sslmode", "LEDGER_POSTGRES_SSLMODE")

	viper.BindEnv("intent.endpoint", "INTENT_ENDPOINT")
	viper.BindEnv("intent.app_id", "INTENT_APP_ID")
	viper.BindEnv("intent.key", "INTENT_KEY")

	viper.BindEnv("chat.base_url", "CHAT_BASE_URL")
	viper.BindEnv("chat.token", "CHAT_TOKEN")

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	viper.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("BROKER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}

	if otlpEndpoint := viper.GetString("TRACING_OTLP_ENDPOINT"); otlpEndpoint != "" {
		cfg.Tracing.OTLP.Endpoint = otlpEndpoint
	}

	return nil
}
