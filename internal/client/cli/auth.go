package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/scanpack/internal/common"
)

// getSimpleText, getPassword and getPassphrase are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getPassphrase = GetPassphrase
)

// Login prompts for the phone number or email and the password, and signs
// in. On success the gate notices the new session and opens the dashboard;
// on failure the user stays on the login flow and the reason is printed.
func (a *App) Login(ctx context.Context) error {
	contact, err := getSimpleText(a.reader, "Enter phone number or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.SignIn(ctx, contact, password); err != nil {
		switch {
		case errors.Is(err, common.ErrEmptyCredentials):
			printf(a.out, "Phone/email and password are required\n")
		case errors.Is(err, common.ErrInvalidCredentials):
			printf(a.out, "Invalid credentials\n")
		case errors.Is(err, common.ErrUnavailable):
			printf(a.out, "Server unavailable, try again later\n")
		default:
			printf(a.out, "Login unsuccessful: %s\n", err)
		}
		a.log.Info(ctx, "login failed", "error", err)
		return err
	}
	return nil
}

// Logout signs out. The in-memory session is cleared even when erasing the
// stored one fails; that failure is reported.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printf(a.out, "Signed out, but the saved session could not be erased: %s\n", err)
		return err
	}
	printf(a.out, "Signed out\n")
	return nil
}
