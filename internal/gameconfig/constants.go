package gameconfig

import "time"

// DefaultPersistTimeout bounds a single configuration write.
const DefaultPersistTimeout = 3 * time.Second

// Mutation operation labels
const (
	OpSeed          = "seed"
	OpAddGame       = "add_game"
	OpUpdateGame    = "update_game"
	OpRemoveGame    = "remove_game"
	OpToggleGame    = "toggle_game"
	OpSetThresholds = "set_thresholds"
)

// Log messages
const (
	LogMsgSeededDefaults  = "Seeded default game configuration"
	LogMsgConfigLoaded    = "Loaded game configuration"
	LogMsgConfigChanged   = "Game configuration changed"
	LogMsgConfigRejected  = "Game configuration change rejected"
	LogMsgConfigSaveError = "Failed to save game configuration"
	LogMsgConfigReloaded  = "Reloaded game configuration after concurrent change"
)
