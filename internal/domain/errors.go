package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Kinds
	ErrMsgValidation         = "validation failed"
	ErrMsgUnauthorized       = "unauthorized"
	ErrMsgNotFound           = "not found"
	ErrMsgConflict           = "conflict"
	ErrMsgPersistence        = "persistence failure"
	ErrMsgPersistenceTimeout = "persistence timed out"

	// Game configuration
	ErrMsgUnknownGame       = "unknown game"
	ErrMsgInactiveGame      = "game is not active"
	ErrMsgOutOfRange        = "value out of range"
	ErrMsgInvalidValue      = "invalid value"
	ErrMsgInvalidThreshold  = "invalid thresholds"
	ErrMsgInvalidDefinition = "invalid game definition"
	ErrMsgDuplicateGame     = "game number already exists"
	ErrMsgGameNotFound      = "game not found"
	ErrMsgStaleConfig       = "game configuration changed during submission"

	// Participants and scores
	ErrMsgParticipantNotFound  = "participant not found"
	ErrMsgDuplicateParticipant = "participant already registered"
	ErrMsgVersionConflict      = "score record was modified concurrently"
	ErrMsgParticipantBusy      = "participant record is busy"

	// Operators
	ErrMsgAlreadyAssigned     = "operator already assigned"
	ErrMsgOperatorNotFound    = "operator not found"
	ErrMsgInvalidCredential   = "invalid credential"
	ErrMsgNotAssignedToGame   = "operator is not assigned to this game"
	ErrMsgMissingCaller       = "missing caller identity"
	ErrMsgAdminRequired       = "admin role required"
	ErrMsgInvalidInput        = "invalid input"
	ErrMsgTxClosed            = "tx is closed"
	ErrMsgInvalidAuditEntry   = "invalid audit entry"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// so transports can map on the kind with errors.Is.
var (
	ErrValidation         = errors.New(ErrMsgValidation)
	ErrUnauthorized       = errors.New(ErrMsgUnauthorized)
	ErrNotFound           = errors.New(ErrMsgNotFound)
	ErrConflict           = errors.New(ErrMsgConflict)
	ErrPersistence        = errors.New(ErrMsgPersistence)
	ErrPersistenceTimeout = fmt.Errorf("%w: %s", ErrPersistence, ErrMsgPersistenceTimeout)
)

// Specific errors. Wrap these with fmt.Errorf("%w: details", domain.ErrXxx)
// for additional context; errors.Is matches both the specific error and its kind.
var (
	ErrUnknownGame       = fmt.Errorf("%w: %s", ErrValidation, ErrMsgUnknownGame)
	ErrInactiveGame      = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInactiveGame)
	ErrOutOfRange        = fmt.Errorf("%w: %s", ErrValidation, ErrMsgOutOfRange)
	ErrInvalidValue      = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidValue)
	ErrInvalidThreshold  = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidThreshold)
	ErrInvalidDefinition = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidDefinition)
	ErrInvalidInput      = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidInput)
	ErrInvalidAuditEntry = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidAuditEntry)

	ErrDuplicateGame        = fmt.Errorf("%w: %s", ErrConflict, ErrMsgDuplicateGame)
	ErrDuplicateParticipant = fmt.Errorf("%w: %s", ErrConflict, ErrMsgDuplicateParticipant)
	ErrAlreadyAssigned      = fmt.Errorf("%w: %s", ErrConflict, ErrMsgAlreadyAssigned)
	ErrStaleConfig          = fmt.Errorf("%w: %s", ErrConflict, ErrMsgStaleConfig)
	ErrVersionConflict      = fmt.Errorf("%w: %s", ErrConflict, ErrMsgVersionConflict)
	ErrParticipantBusy      = fmt.Errorf("%w: %s", ErrConflict, ErrMsgParticipantBusy)

	ErrGameNotFound        = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgGameNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgParticipantNotFound)
	ErrOperatorNotFound    = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgOperatorNotFound)

	ErrInvalidCredential = fmt.Errorf("%w: %s", ErrUnauthorized, ErrMsgInvalidCredential)
	ErrNotAssignedToGame = fmt.Errorf("%w: %s", ErrUnauthorized, ErrMsgNotAssignedToGame)
	ErrMissingCaller     = fmt.Errorf("%w: %s", ErrUnauthorized, ErrMsgMissingCaller)
	ErrAdminRequired     = fmt.Errorf("%w: %s", ErrUnauthorized, ErrMsgAdminRequired)

	ErrTxClosed = errors.New(ErrMsgTxClosed)
)
