package bootstrap

import "time"

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0644
)

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Connection pool lifetimes
const (
	DBMaxConnIdleTime = 5 * time.Minute
	DBMaxConnLifetime = time.Hour
)

// Background job pool
const (
	JobWorkers   = 1
	JobQueueSize = 4
)

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting score ledger"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgStorageReady        = "Storage ready"
	LogMsgServicesReady       = "Services initialized"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// Error messages for startup
const (
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	ErrMsgFailedConnect       = "failed to connect to database"
	ErrMsgFailedMigrate       = "failed to migrate database"
	ErrMsgFailedGameConfig    = "failed to load game configuration"
	ErrMsgFailedGameSeed      = "failed to load game seed file"
	ErrMsgFailedTokens        = "failed to initialize token signer"
	ErrMsgFailedLeaderboard   = "failed to initialize leaderboard"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgShuttingDownJobs     = "Stopping background jobs..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgClosingStorage       = "Closing storage"
)
