package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/mixify/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountLogin signs in against the identity provider and stores the session.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")

	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set credentials.identity in config.toml", shared.ErrServiceUnavailable)
	}

	session, err := r.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	if err := r.store.SignIn(session.AccessToken, session.RefreshToken, session.User.ID, session.User.Email); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	r.logger.Info("signed in", "user", session.User.Email)
	r.writePlain("✓ Signed in as %s\n", session.User.Email)
	return nil
}

// AccountSignup registers a new account with the identity provider.
//
// When the server requires email confirmation the response carries no
// session; the user signs in after confirming.
func (r *Runner) AccountSignup(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")

	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set credentials.identity in config.toml", shared.ErrServiceUnavailable)
	}

	session, err := r.identity.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	if session.AccessToken == "" {
		r.writePlain("✓ Account created for %s\n", email)
		r.writePlainln("Check your inbox for a confirmation email, then run: mixify account login")
		return nil
	}

	if err := r.store.SignIn(session.AccessToken, session.RefreshToken, session.User.ID, session.User.Email); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	r.writePlain("✓ Account created, signed in as %s\n", session.User.Email)
	return nil
}

// AccountLogout revokes the remote session and clears the local one.
//
// The local session is cleared even when revocation fails so a stale
// token never lingers on disk.
func (r *Runner) AccountLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.store.SignedIn() {
		return fmt.Errorf("%w: not signed in, run: mixify account login", shared.ErrSessionMissing)
	}

	if r.identity != nil {
		if err := r.identity.SignOut(ctx, r.store.Credential()); err != nil {
			r.logger.Warn("failed to revoke remote session", "error", err)
		}
	}

	if err := r.store.SignOut(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.writePlainln("✓ Signed out")
	return nil
}

// AccountReset requests a password recovery email.
func (r *Runner) AccountReset(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrMissingArgument)
	}

	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set credentials.identity in config.toml", shared.ErrServiceUnavailable)
	}

	if err := r.identity.ResetPasswordForEmail(ctx, email); err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}

	r.writePlain("✓ Recovery email sent to %s\n", email)
	return nil
}

// AccountPasswd changes the signed-in account's password.
func (r *Runner) AccountPasswd(ctx context.Context, cmd *cli.Command) error {
	password := cmd.StringArg("password")
	if password == "" {
		return fmt.Errorf("%w: new password is required", shared.ErrMissingArgument)
	}

	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set credentials.identity in config.toml", shared.ErrServiceUnavailable)
	}

	user, err := r.identity.UpdateUser(ctx, r.store.Credential(), password)
	if err != nil {
		if errors.Is(err, shared.ErrSessionMissing) {
			return fmt.Errorf("%w: not signed in, run: mixify account login", shared.ErrSessionMissing)
		}
		return fmt.Errorf("password change failed: %w", err)
	}

	r.writePlain("✓ Password updated for %s\n", user.Email)
	return nil
}

// AccountStatus shows the current session state.
func (r *Runner) AccountStatus(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	status := map[string]any{
		"signed_in":        r.store.SignedIn(),
		"user_id":          r.store.LocalUserID(),
		"display_name":     r.store.DisplayName(),
		"spotify_user_id":  r.store.ExternalUserID(),
		"last_playlist_id": r.store.LastPlaylistID(),
	}

	if useJSON {
		return r.writeJSON(status, pretty)
	}

	if !r.store.SignedIn() {
		r.writePlainln("Not signed in. Run: mixify account login")
		return nil
	}

	r.writePlain("Signed in as %s\n", r.store.DisplayName())
	if r.store.ExternalUserID() != "" {
		r.writePlain("Spotify account: %s\n", r.store.ExternalUserID())
	} else {
		r.writePlainln("Spotify: not connected. Run: mixify spotify connect")
	}
	if r.store.LastPlaylistID() != "" {
		r.writePlain("Last published playlist: %s\n", r.store.LastPlaylistID())
	}
	return nil
}
