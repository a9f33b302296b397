package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/repositories"
	"github.com/dfaust/spotify-playlist-importer/internal/server"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the implicit grant flow: starts the loopback listener,
// opens the authorize URL in the browser, and persists the resulting
// session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	clientID := r.config.Credentials.Spotify.ClientID
	redirectURI := r.config.Credentials.Spotify.RedirectURI
	if clientID == "" || redirectURI == "" {
		return fmt.Errorf("%w: spotify client_id and redirect_uri must be configured", shared.ErrMissingCredentials)
	}

	state := shared.GenerateState()
	handler := server.NewTokenHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("redirect listener failed", "err", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	authURL := services.AuthorizeURL(clientID, redirectURI, state)
	r.writePlain("Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "err", err)
		r.writePlain("Open this URL in your browser:\n%s\n", authURL)
	}

	var result server.AuthResult
	select {
	case result = <-handler.Result():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := result.Error(); err != nil {
		return err
	}

	session := &services.Session{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
	}
	svc := services.NewSpotifyService(session, r.config.Importer.RateLimit)

	user, err := svc.UserProfile(ctx)
	if err != nil {
		return err
	}
	session.UserID = user.ID

	if err := r.sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.catalog = svc
	r.logger.Info("authenticated", "user", user.ID)
	return r.writePlain("✓ Authenticated as %s (token valid for %s)\n", user.ID, session.Remaining().Round(time.Second))
}

// AuthStatus reports the persisted session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.sessions.Load()
	if err != nil {
		return err
	}

	if session.Expired() {
		return r.writePlain("✗ Session for %s expired, run 'auth login' again\n", session.UserID)
	}
	return r.writePlain("✓ Authenticated as %s (token valid for %s)\n", session.UserID, session.Remaining().Round(time.Second))
}

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %s\n", path)
}

// SetupDatabase applies the schema to the configured database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return fmt.Errorf("%w: database not available", shared.ErrInvalidConfig)
	}
	if err := repositories.Migrate(r.db); err != nil {
		return err
	}
	return r.writePlain("✓ Database ready\n")
}
