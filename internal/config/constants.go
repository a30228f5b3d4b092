package config

import "time"

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Defaults
const (
	DefaultPort                   = 8080
	DefaultDBMaxConns             = 20
	DefaultPersistTimeout         = 3 * time.Second
	DefaultSubmitMaxRetries       = 3
	DefaultJWTTTL                 = 12 * time.Hour
	DefaultLeaderboardCacheSize   = 64
	DefaultMetricsRefreshInterval = 30 * time.Second
	DefaultBcryptCost             = 10
	DefaultShutdownTimeout        = 15 * time.Second
)

// Example values shipped in .env.example that must never reach production.
const (
	exampleDBPassword    = "change_this_secure_password"
	exampleAPIKey        = "generate_with_openssl_rand_hex_32"
	exampleJWTSigningKey = "generate_with_openssl_rand_hex_64"
)

const minJWTKeyLength = 32
