package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BotInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sesheta_bot_info",
			Help: "Sesheta chat bot information",
		},
		[]string{"version"},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesheta_events_total",
			Help: "Total number of events received from the chat platform (count)",
		},
		[]string{"space_type"},
	)

	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesheta_replies_total",
			Help: "Total number of replies sent back to the chat platform (count)",
		},
		[]string{"kind"},
	)

	MalformedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sesheta_malformed_events_total",
			Help: "Total number of events dropped because required fields were missing (count)",
		},
	)

	SideEffectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesheta_side_effects_total",
			Help: "Total number of side-effect sink calls (count)",
		},
		[]string{"sink", "status"},
	)

	IntentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sesheta_intent_requests_total",
			Help: "Total number of requests to the intent-recognition service (count)",
		},
		[]string{"status"},
	)

	IntentRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sesheta_intent_request_duration_ms",
			Help:    "Duration of intent-recognition requests in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	KafkaMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_read_total",
			Help: "Total number of messages read from Kafka (count)",
		},
		[]string{"topic"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"topic"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register registers every collector and marks the running version on the
// info gauge. Guarded so tests can call it alongside the app wiring.
func Register(version string) {
	registerOnce.Do(func() {
		prometheus.MustRegister(BotInfo)
		prometheus.MustRegister(EventsTotal)
		prometheus.MustRegister(RepliesTotal)
		prometheus.MustRegister(MalformedEventsTotal)
		prometheus.MustRegister(SideEffectsTotal)
		prometheus.MustRegister(IntentRequestsTotal)
		prometheus.MustRegister(IntentRequestDuration)
		prometheus.MustRegister(KafkaMessagesReadTotal)
		prometheus.MustRegister(KafkaMessagesWrittenTotal)
		prometheus.MustRegister(CircuitBreakerState)
		prometheus.MustRegister(CircuitBreakerRequests)
		prometheus.MustRegister(RateLimitRequestsTotal)
	})
	BotInfo.WithLabelValues(version).Set(1)
}

func IncEvent(spaceType string) {
	EventsTotal.WithLabelValues(spaceType).Inc()
}

func IncReply(kind string) {
	RepliesTotal.WithLabelValues(kind).Inc()
}

func IncSideEffect(sink, status string) {
	SideEffectsTotal.WithLabelValues(sink, status).Inc()
}

func IncIntentRequest(status string) {
	IntentRequestsTotal.WithLabelValues(status).Inc()
}

func ObserveIntentRequestDuration(duration time.Duration) {
	IntentRequestDuration.Observe(float64(duration.Milliseconds()))
}

func IncKafkaMessagesRead(topic string) {
	KafkaMessagesReadTotal.WithLabelValues(topic).Inc()
}

func IncKafkaMessagesWritten(topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(topic).Inc()
}
