package bootstrap

// File system permissions
const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	LogMsgFailedOpenDeadLetter      = "failed to open dead-letter file"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgStreamSubscriberRegistered = "Stream subscriber registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Closing dead-letter writer..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgDeadLetterCloseFailed      = "Dead-letter writer close failed"
)
