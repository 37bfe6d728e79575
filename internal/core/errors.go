package core

import "errors"

var (
	// ErrSourceUnavailable wraps failures to open or read the registry file.
	// It is the only load-fatal condition outside strict mode.
	ErrSourceUnavailable = errors.New("registry source unavailable")

	// ErrStrictDiagnostic aborts a strict load at its first row diagnostic.
	ErrStrictDiagnostic = errors.New("registry row rejected in strict mode")

	// ErrNotFound is returned when a SIRUTA code is not in the database.
	ErrNotFound = errors.New("siruta code not in database")

	// ErrNotSupported is returned by every name-to-code lookup. The registry
	// only resolves codes to names.
	ErrNotSupported = errors.New("lookup by name is not supported")

	// ErrInvalidFilter is returned for list filters that cannot be applied.
	ErrInvalidFilter = errors.New("invalid list filter")

	// ErrInvalidDiacritics is returned for unknown diacritic flags.
	ErrInvalidDiacritics = errors.New("invalid diacritics mode")

	// ErrNoRegistry is returned by a Store that has not loaded successfully yet.
	ErrNoRegistry = errors.New("registry not loaded")

	// ErrBusy is returned by Store.ReloadWithin when a running reload does
	// not finish within the wait.
	ErrBusy = errors.New("registry reload already in progress")
)
