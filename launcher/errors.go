package launcher

import "errors"

var (
	ErrAlreadyAuthenticated = errors.New("launcher is already authenticated")
	ErrNotAuthenticated     = errors.New("launcher is not authenticated")
	ErrConfigMissing        = errors.New("launcher game configuration not set")
	ErrUnknownModLoader     = errors.New("unknown mod loader")
	ErrNoAuthenticator      = errors.New("no authenticator configured")
	ErrNoUpdater            = errors.New("no updater configured")
	ErrNoProcessLauncher    = errors.New("no process launcher configured")
)
