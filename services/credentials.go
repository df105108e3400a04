package services

import (
	"context"
	"crypto/md5" //nolint:gosec // offline ids are md5 name based
	"errors"

	"github.com/google/uuid"
	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/zalando/go-keyring"
)

const keyringService = "modlaunch"

var ErrNoStoredToken = errors.New("no refresh token stored for account")

func SaveRefreshToken(account string, token string) error {
	return keyring.Set(keyringService, account, token)
}

func RefreshToken(account string) (string, error) {
	token, err := keyring.Get(keyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoStoredToken
	}
	return token, err
}

func ForgetRefreshToken(account string) error {
	err := keyring.Delete(keyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Login authenticates l with the stored refresh token of account and stores
// the rotated token in its place.
func Login(ctx context.Context, l *launcher.Launcher, account string) error {
	token, err := RefreshToken(account)
	if err != nil {
		return err
	}
	rotated, err := l.AuthenticateWithToken(ctx, token)
	if err != nil {
		return err
	}
	return SaveRefreshToken(account, rotated)
}

// LoginInteractive runs the provider's interactive flow and stores the
// issued refresh token for account.
func LoginInteractive(ctx context.Context, l *launcher.Launcher, account string) error {
	token, err := l.AuthenticateInteractive(ctx)
	if err != nil {
		return err
	}
	return SaveRefreshToken(account, token)
}

// OfflineUUID derives the version 3 player id the game itself assigns to an
// offline username.
func OfflineUUID(username string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + username)) //nolint:gosec
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum).String()
}
