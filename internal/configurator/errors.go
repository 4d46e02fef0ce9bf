package configurator

import "errors"

var (
	// ErrLocked means a variant switch or logo load is already in flight.
	// The intent is dropped, not queued.
	ErrLocked = errors.New("configurator: busy")
	// ErrSameVariant means the requested variant is already shown.
	ErrSameVariant = errors.New("configurator: variant already selected")
	// ErrUnknownVariant means the id is not a configured variant.
	ErrUnknownVariant = errors.New("configurator: unknown variant")
	// ErrNoLogo means the intent needs a loaded logo.
	ErrNoLogo = errors.New("configurator: no logo loaded")
	// ErrClosed is returned by intents after Close.
	ErrClosed = errors.New("configurator: closed")
)
