package apperrors

import "errors"

// Input errors represent unusable or missing engine inputs.
// Only the total absence of usable holdings is fatal for a run; everything
// else degrades to a recorded warning.
var (
	// ErrNoHoldings indicates that the holdings collection is empty or that
	// no holding survived parsing. The engine cannot produce a snapshot.
	ErrNoHoldings = errors.New("no usable holdings")

	// ErrHoldingsFileUnreadable indicates that the holdings file could not be
	// read or decoded at all.
	ErrHoldingsFileUnreadable = errors.New("holdings file unreadable")
)

// Per-item conditions recovered locally during a run. These are used as
// warning codes on the snapshot rather than surfaced as errors.
var (
	// ErrMissingTickerData indicates that a holding's ticker has no column in
	// the price table. The holding is excluded from the snapshot.
	ErrMissingTickerData = errors.New("no price data for ticker")

	// ErrMalformedDate indicates an unparseable date in a holding or in a
	// time-series date column. The row is skipped.
	ErrMalformedDate = errors.New("malformed date")
)

// Storage and import errors.
var (
	// ErrSettingNotFound indicates that a system setting key does not exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidCSVHeaders indicates that an imported table is missing the
	// Date column or has no ticker columns.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")
)

// Configuration errors.
var (
	// ErrInvalidFernetKey indicates that the configured encryption key cannot
	// be decoded as a fernet key.
	ErrInvalidFernetKey = errors.New("invalid fernet key")

	// ErrNoFernetKey indicates that token encryption was requested but no key
	// is configured.
	ErrNoFernetKey = errors.New("no fernet key configured")
)
