package deck

// DefaultTitleFormat names an untitled deck after its subject
const DefaultTitleFormat = "%s Destesi"

// Error message formats
const (
	ErrMsgCreateDeckFailed = "failed to create deck: %w"
	ErrMsgGetDeckFailed    = "failed to get deck: %w"
)

// Log messages
const (
	LogMsgDeckCreated   = "Shared deck created"
	LogMsgPublishFailed = "Failed to publish deck event"
)
