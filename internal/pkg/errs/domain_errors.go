package errs

import "errors"

// Domain-specific sentinel errors for the scan pipeline
var (
	// Scan request errors (the only client-visible failures)
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content exceeds maximum length")

	// Scan record errors
	ErrScanNotFound = errors.New("scan not found")

	// Collaborator errors (degrade a boolean, never abort a scan)
	ErrRegistryUnavailable = errors.New("provider registry unavailable")
	ErrLedgerUnavailable   = errors.New("duplicate ledger unavailable")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
