package logger

// Log level values accepted in Config.Level
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log format values accepted in Config.Format
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "arena-api"
	DefaultVersion     = "dev"
	ProductionVersion  = "1.0.0"
)

const (
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
)

// Base attribute keys stamped on every log record
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)
