package launcher

import "context"

// Profile is the game profile returned by the identity provider.
type Profile struct {
	Name string
	ID   string
}

// TokenSession is the result of a successful online login.
type TokenSession struct {
	Profile      Profile
	AccessToken  string
	RefreshToken string
	XUID         string
	ClientID     string
}

// Authenticator is the identity provider client.
type Authenticator interface {
	// LoginWithRefreshToken exchanges a refresh token for a new session.
	// The returned session carries a rotated refresh token.
	LoginWithRefreshToken(ctx context.Context, refreshToken string) (TokenSession, error)
	// LoginInteractive runs an interactive (browser or device code) login.
	LoginInteractive(ctx context.Context) (TokenSession, error)
}

// AuthResult holds the credentials handed to the game process.
type AuthResult struct {
	Username    string
	AccessToken string
	UUID        string
	XUID        string
	ClientID    string
	Offline     bool
}

func authResultFromSession(s TokenSession) AuthResult {
	return AuthResult{
		Username:    s.Profile.Name,
		AccessToken: s.AccessToken,
		UUID:        s.Profile.ID,
		XUID:        s.XUID,
		ClientID:    s.ClientID,
	}
}

// AuthState is the authentication state of a Launcher.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}
