package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	// DefaultMaxIdleTime is how long a connection may sit idle before the pool closes it
	DefaultMaxIdleTime = 5 * time.Minute

	// DefaultMaxLifetime is the maximum lifetime of a pooled connection
	DefaultMaxLifetime = 30 * time.Minute

	// PingTimeout bounds the startup connectivity check
	PingTimeout = 5 * time.Second
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
)
