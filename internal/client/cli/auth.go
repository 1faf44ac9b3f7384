package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Register prompts for a username and password and creates a server account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		return errors.New("username must not be empty")
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.identity.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and signs in. An empty username continues
// with the local identity. After an online sign-in every local note is
// queued for the server and sync starts.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username (empty to continue locally)", a.out)
	if err != nil {
		return err
	}

	var password []byte
	if userName != "" {
		password, err = getPassword(a.out, "Enter password")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)
	}

	res, err := a.identity.SignIn(ctx, userName, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("login unsuccessful: wrong username or password")
		}
		return err
	}
	a.reachable.Store(res.Online)

	switch {
	case res.Fallback != "":
		fmt.Fprintf(a.out, "Continuing locally (%s)\n", res.Fallback)
	case res.Online:
		fmt.Fprintf(a.out, "Signed in as %s\n", res.Identity.Username)
		if err := a.store.AttachRemote(ctx); err != nil {
			fmt.Fprintln(a.out, "Sync is not available yet:", err)
		}
	default:
		fmt.Fprintf(a.out, "Signed in as %s with cached credentials; changes stay local until the server is back\n", res.Identity.Username)
	}
	return nil
}

// Logout forgets cached credentials. Notes stay on this device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.identity.SignOut(ctx); err != nil {
		return err
	}
	a.store.SetAvailable(false)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Retry re-enables sync after it was switched off for the session.
func (a *App) Retry(ctx context.Context) error {
	if a.identity.State() == services.StateRemote && !a.identity.Online() {
		if err := a.identity.Reconnect(ctx); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}
	if err := a.store.RetryConnection(ctx); err != nil {
		return err
	}
	a.reachable.Store(true)
	fmt.Fprintln(a.out, "Sync enabled")
	return nil
}
