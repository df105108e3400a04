// Package launcher sequences authentication, installation and start-up of a
// game client.
//
// A Launcher is meant to be driven by one owner: set a configuration,
// authenticate, update, then start the game. Session state is guarded by a
// mutex, but calls still run in the order the caller makes them.
package launcher

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

type session struct {
	auth   *AuthResult
	config GameConfiguration
}

// Launcher holds one launch session.
type Launcher struct {
	name          string
	out           *pterm.PrefixPrinter
	authenticator Authenticator
	updater       Updater
	processes     ProcessLauncher

	mu      sync.Mutex
	session session
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithAuthenticator sets the identity provider used by the online
// authentication methods.
func WithAuthenticator(a Authenticator) Option {
	return func(l *Launcher) { l.authenticator = a }
}

// WithUpdater sets the update engine.
func WithUpdater(u Updater) Option {
	return func(l *Launcher) { l.updater = u }
}

// WithProcessLauncher sets the engine that starts the game process.
func WithProcessLauncher(p ProcessLauncher) Option {
	return func(l *Launcher) { l.processes = p }
}

// WithOutput redirects diagnostic lines.
func WithOutput(w io.Writer) Option {
	return func(l *Launcher) { l.out = l.out.WithWriter(w) }
}

// New returns an unauthenticated, unconfigured Launcher.
func New(name string, opts ...Option) *Launcher {
	l := &Launcher{
		name: name,
		out: pterm.Info.WithPrefix(pterm.Prefix{
			Text:  name,
			Style: pterm.Info.Prefix.Style,
		}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.out.Printfln("Initializing launcher: %s", name)
	return l
}

// Name returns the name the launcher was created with.
func (l *Launcher) Name() string { return l.name }

func (l *Launcher) snapshot() session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

// commit is the only place session state changes.
func (l *Launcher) commit(fn func(s *session) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(&l.session)
}

// State reports whether the launcher currently holds credentials.
func (l *Launcher) State() AuthState {
	if l.snapshot().auth == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Auth returns a copy of the current credentials.
func (l *Launcher) Auth() (AuthResult, bool) {
	s := l.snapshot()
	if s.auth == nil {
		return AuthResult{}, false
	}
	return *s.auth, true
}

// ClearAuth drops the current credentials. It is a no-op when there are none.
func (l *Launcher) ClearAuth() {
	_ = l.commit(func(s *session) error {
		s.auth = nil
		return nil
	})
}

// SetConfig replaces the game configuration. A nil cfg clears it. Pointers
// to configurations are stored as values.
func (l *Launcher) SetConfig(cfg GameConfiguration) {
	cfg = configValue(cfg)
	_ = l.commit(func(s *session) error {
		s.config = cfg
		return nil
	})
}

func configValue(cfg GameConfiguration) GameConfiguration {
	switch c := cfg.(type) {
	case *VanillaConfig:
		if c == nil {
			return nil
		}
		return *c
	case *ModdedConfig:
		if c == nil {
			return nil
		}
		return *c
	}
	return cfg
}

// Config returns the current game configuration, or nil.
func (l *Launcher) Config() GameConfiguration {
	return l.snapshot().config
}

// AuthenticateWithToken logs in with a refresh token and returns the
// rotated refresh token. The old token must not be reused.
func (l *Launcher) AuthenticateWithToken(ctx context.Context, refreshToken string) (string, error) {
	if err := l.requireUnauthenticated(); err != nil {
		return "", err
	}
	if l.authenticator == nil {
		return "", ErrNoAuthenticator
	}

	l.out.Println("Authenticating with refresh token")
	res, err := l.authenticator.LoginWithRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if err := l.setAuth(authResultFromSession(res)); err != nil {
		return "", err
	}
	return res.RefreshToken, nil
}

// AuthenticateInteractive logs in through the provider's interactive flow
// and returns the issued refresh token.
func (l *Launcher) AuthenticateInteractive(ctx context.Context) (string, error) {
	if err := l.requireUnauthenticated(); err != nil {
		return "", err
	}
	if l.authenticator == nil {
		return "", ErrNoAuthenticator
	}

	l.out.Println("Authenticating interactively")
	res, err := l.authenticator.LoginInteractive(ctx)
	if err != nil {
		return "", err
	}
	if err := l.setAuth(authResultFromSession(res)); err != nil {
		return "", err
	}
	return res.RefreshToken, nil
}

// AuthenticateOffline creates an unverified local identity. The access token
// is a random placeholder.
func (l *Launcher) AuthenticateOffline(username, id string) error {
	if err := l.requireUnauthenticated(); err != nil {
		return err
	}

	l.out.Println("Authenticating offline")
	return l.setAuth(AuthResult{
		Username:    username,
		AccessToken: uuid.NewString(),
		UUID:        id,
		Offline:     true,
	})
}

func (l *Launcher) requireUnauthenticated() error {
	if l.snapshot().auth != nil {
		return ErrAlreadyAuthenticated
	}
	return nil
}

// setAuth re-checks the precondition since the provider call ran unlocked.
func (l *Launcher) setAuth(auth AuthResult) error {
	err := l.commit(func(s *session) error {
		if s.auth != nil {
			return ErrAlreadyAuthenticated
		}
		s.auth = &auth
		return nil
	})
	if err != nil {
		return err
	}
	l.out.Printfln("Auth success: %s (%s)", auth.Username, auth.UUID)
	return nil
}

// Update installs or repairs the configured game. Authentication is not
// required. Every call issues a full update request; errors from the
// updater are returned unchanged.
func (l *Launcher) Update(ctx context.Context, sink ProgressSink) error {
	cfg := l.snapshot().config
	if cfg == nil {
		return ErrConfigMissing
	}
	if l.updater == nil {
		return ErrNoUpdater
	}

	req, err := updateRequest(cfg)
	if err != nil {
		return err
	}
	if sink == nil {
		sink = discardProgress{}
	}

	l.out.Printfln("Starting update: %s", req.Version.Name)
	return l.updater.Update(ctx, req, sink)
}

// StartGame spawns the game and returns without waiting for it. A single
// goroutine per game waits for the exit and delivers the code on
// Game.Exited. ctx only bounds the spawn.
func (l *Launcher) StartGame(ctx context.Context) (*Game, error) {
	s := l.snapshot()
	if s.auth == nil {
		return nil, ErrNotAuthenticated
	}
	if s.config == nil {
		return nil, ErrConfigMissing
	}
	if l.processes == nil {
		return nil, ErrNoProcessLauncher
	}

	req, err := launchRequest(s.config, *s.auth)
	if err != nil {
		return nil, err
	}

	l.out.Printfln("Starting game: %s (%s %s)", req.BaseVersion, req.Kind, req.LoaderVersion)
	proc, err := l.processes.Launch(ctx, req)
	if err != nil {
		return nil, err
	}

	game := newGame(proc)
	go l.watch(game)
	return game, nil
}

func (l *Launcher) watch(game *Game) {
	code, err := game.proc.Wait()
	if err != nil {
		code = 0
	}
	l.out.Printfln("Game stopped with exit code: %d", code)
	game.exited <- code
	close(game.exited)
}
