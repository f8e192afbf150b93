package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors. Auth and connect failures are fatal for a run and
	// abort it before any playlist mutation is attempted.
	ErrCatalogAuth      = fmt.Errorf("catalog authentication failed")
	ErrCatalogConnect   = fmt.Errorf("catalog unreachable")
	ErrCatalogRequest   = fmt.Errorf("catalog request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrPartialAppend    = fmt.Errorf("playlist append partially applied")

	// Harvest errors. Per-source failures are warnings, not run failures.
	ErrSourceUnavailable = fmt.Errorf("station page unavailable")
	ErrUnknownStation    = fmt.Errorf("unknown station")

	// Persistence errors
	ErrLedgerPersistence  = fmt.Errorf("wishlist ledger not persisted")
	ErrHistoryPersistence = fmt.Errorf("history record not persisted")

	// A run already in flight causes a new request to be skipped, not queued.
	ErrRunInProgress = fmt.Errorf("a sync run is already in progress")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
