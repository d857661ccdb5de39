package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/mixify/internal/server"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// SpotifyConnect performs the OAuth2 authorization flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens, and links the account to the session.
func (r *Runner) SpotifyConnect(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	spotifyService, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(config, spotifyService, "authorization")
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := spotifyService.Authenticate(ctx, map[string]string{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
	}); err != nil {
		return fmt.Errorf("failed to authenticate with new tokens: %w", err)
	}

	r.config = config
	r.catalog = spotifyService

	profile, err := spotifyService.Profile(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch profile after connect", "error", err)
	} else if err := r.store.SetExternalIdentity(profile.ID, profile.DisplayName); err != nil {
		r.logger.Warn("failed to record spotify identity", "error", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: mixify search tracks \"your song\"\n")

	return nil
}

// SpotifyProfile shows the connected Spotify profile.
func (r *Runner) SpotifyProfile(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	profile, err := r.catalog.Profile(ctx)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if profile, err = r.catalog.Profile(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if useJSON {
		return r.writeJSON(profile, pretty)
	}

	r.writePlain("Display name: %s\n", profile.DisplayName)
	r.writePlain("User ID: %s\n", profile.ID)

	return nil
}

// spotifyReauth performs the full OAuth2 flow to get new tokens.
func (r *Runner) spotifyReauth(ctx context.Context, configPath string, config *shared.Config, srv services.OAuthService) (*shared.Config, error) {
	token, err := r.doOAuth(config, srv, "reauthorization")
	if err != nil {
		return nil, err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return nil, fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Reauthorization successful")
	r.writePlain("✓ New tokens saved to %s\n", configPath)

	return config, nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, oauthSrv services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthSrv.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// handleSpotifyAuthError checks if an error is a token expiration error and triggers reauthorization if needed.
func (r *Runner) handleSpotifyAuthError(ctx context.Context, err error, cmd *cli.Command) (bool, error) {
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, shared.ErrTokenExpired) {
		return false, err
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...\n")

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := r.config
	if config == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			var loadErr error
			if config, loadErr = shared.LoadConfig(configPath); loadErr != nil {
				return true, fmt.Errorf("failed to load config: %w", loadErr)
			}
		} else {
			return true, fmt.Errorf("config file not found: %w", statErr)
		}
	}

	spotifyService, ok := r.catalog.(services.OAuthService)
	if !ok {
		return true, fmt.Errorf("spotify service does not support reauthorization")
	}

	updatedConfig, reauthErr := r.spotifyReauth(ctx, configPath, config, spotifyService)
	if reauthErr != nil {
		return true, fmt.Errorf("reauthorization failed: %w", reauthErr)
	}

	if authErr := spotifyService.Authenticate(ctx, map[string]string{
		"access_token":  updatedConfig.Credentials.Spotify.AccessToken,
		"refresh_token": updatedConfig.Credentials.Spotify.RefreshToken,
	}); authErr != nil {
		return true, fmt.Errorf("failed to authenticate with new tokens: %w", authErr)
	}

	r.config = updatedConfig
	r.writePlainln("✓ Successfully reauthenticated. Retrying operation...\n")

	return true, nil
}
