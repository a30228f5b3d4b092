package auth

import "time"

// Token settings
const (
	TokenIssuer     = "score-ledger"
	DefaultTokenTTL = 12 * time.Hour
	MinKeyLength    = 32
	BearerPrefix    = "Bearer "
)

// AdminIdentity is the subject of tokens minted from the API key.
const AdminIdentity = "admin"
