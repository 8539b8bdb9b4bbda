package config

import (
	"fmt"
	"strings"

	"sesheta/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateIngress(cfg.Ingress); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if err := validateLedger(cfg.Ledger); err != nil {
		errors = append(errors, err)
	}

	if err := validateIntent(cfg.Intent); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateIngress(cfg IngressConfig) error {
	switch cfg.Mode {
	case constants.IngressModePush, constants.IngressModePull:
		return nil
	default:
		return &ValidationError{
			Field:   "ingress.mode",
			Message: fmt.Sprintf("unknown ingress mode: %s (supported: push, pull)", cfg.Mode),
		}
	}
}

func validateBroker(cfg BrokerConfig) error {
	if cfg.Type == "" {
		return &ValidationError{
			Field:   "broker.type",
			Message: "broker type is required",
		}
	}

	switch cfg.Type {
	case "kafka":
		return validateKafka(cfg.Kafka)
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka)", cfg.Type),
		}
	}
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.ChatEventsTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.chat_events_topic",
			Message: "chat events topic is required",
		}
	}

	if cfg.RecordsTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.records_topic",
			Message: "records topic is required",
		}
	}

	return nil
}

func validateLedger(cfg LedgerConfig) error {
	if cfg.Postgres.Host == "" && cfg.Postgres.Port == 0 {
		return nil // ledger sink is optional, the dispatcher degrades without it
	}

	if cfg.Postgres.Host == "" {
		return &ValidationError{
			Field:   "ledger.postgres.host",
			Message: "PostgreSQL host is required",
		}
	}

	if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
		return &ValidationError{
			Field:   "ledger.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Postgres.Port),
		}
	}

	if cfg.Postgres.User == "" {
		return &ValidationError{
			Field:   "ledger.postgres.user",
			Message: "PostgreSQL user is required",
		}
	}

	if cfg.Postgres.DBName == "" {
		return &ValidationError{
			Field:   "ledger.postgres.dbname",
			Message: "PostgreSQL database name is required",
		}
	}

	validSSLModes := map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
	if cfg.Postgres.SSLMode != "" && !validSSLModes[strings.ToLower(cfg.Postgres.SSLMode)] {
		return &ValidationError{
			Field:   "ledger.postgres.sslmode",
			Message: fmt.Sprintf("invalid SSL mode: %s (valid: disable, allow, prefer, require, verify-ca, verify-full)", cfg.Postgres.SSLMode),
		}
	}

	return nil
}

func validateIntent(cfg IntentConfig) error {
	if cfg.Endpoint == "" {
		return nil // intent service is optional, every answer degrades to the fallback
	}

	if cfg.AppID == "" {
		return &ValidationError{
			Field:   "intent.app_id",
			Message: "intent app id is required when an endpoint is configured",
		}
	}

	if cfg.Key == "" {
		return &ValidationError{
			Field:   "intent.key",
			Message: "intent key is required when an endpoint is configured",
		}
	}

	return nil
}
