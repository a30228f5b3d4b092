package operator

import "time"

const (
	// MinCredentialLength is the shortest credential accepted or generated.
	MinCredentialLength = 8
	// IdentityFormat builds the default identity for a game's operator.
	IdentityFormat = "game%d_op"

	credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Identity cache sizing
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// Log messages
const (
	LogMsgOperatorAssigned   = "Operator assigned"
	LogMsgOperatorRevoked    = "Operator revoked"
	LogMsgCredentialReset    = "Operator credential reset"
	LogMsgCredentialRejected = "Operator credential rejected"
	LogMsgBulkItemFailed     = "Bulk operator action failed for game"
)

// DefaultHashCost is the bcrypt cost for stored credentials.
const DefaultHashCost = 10
