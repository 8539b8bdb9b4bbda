package constants

import "time"

// Version is the bot release carried in the X-Sesheta-Version header and the
// sesheta_bot_info metric.
const Version = "1.0.0"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	DefaultChatEventsTopic = "chat-events"
	DefaultRecordsTopic    = "chat-interactions"

	// ConsumerGroupPrefix gets a per-process uuid suffix so every deployment
	// consumes the full event stream under its own subscription identity.
	ConsumerGroupPrefix = "sesheta-"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	IngressModePush = "push"
	IngressModePull = "pull"
)

const (
	SpaceTypeRoom = "ROOM"
	SpaceTypeDM   = "DM"
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)
