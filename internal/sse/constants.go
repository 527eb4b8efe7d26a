package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE
const (
	// EventTypeDuelChallenged is sent when a new challenge is created
	EventTypeDuelChallenged = "duel.challenged"

	// EventTypeDuelStarted is sent when both participants have joined
	EventTypeDuelStarted = "duel.started"

	// EventTypeDuelCompleted is sent when a duel finishes
	EventTypeDuelCompleted = "duel.completed"

	// EventTypeDuelExpired is sent when a pending challenge lapses
	EventTypeDuelExpired = "duel.expired"

	// EventTypeDeckShared is sent when a deck is shared for dueling
	EventTypeDeckShared = "deck.shared"

	// EventTypeBattleUpdate carries a live battle snapshot on per-duel streams
	EventTypeBattleUpdate = "battle.update"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid event payload type"
)
