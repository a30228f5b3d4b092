package postgres

// PostgreSQL Error Codes
const (
	PgErrorCodeUniqueViolation     = "23505"
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToEncodeScores      = "failed to encode scores"
	ErrMsgFailedToDecodeScores      = "failed to decode scores"
	ErrMsgFailedToEncodeConfig      = "failed to encode game config"
	ErrMsgFailedToDecodeConfig      = "failed to decode game config"
	ErrMsgFailedToAllocateSequence  = "failed to allocate audit sequence"
)

const gameConfigRowID = 1
