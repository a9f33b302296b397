package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")

	// API errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input errors
	ErrInvalidPlaylist = fmt.Errorf("invalid playlist document")
	ErrInvalidInput    = fmt.Errorf("invalid input")
)
