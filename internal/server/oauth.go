package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

// AuthResult contains the result of an implicit-grant authorization flow.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	err         error
}

func (a *AuthResult) Error() error {
	return a.err
}

// TokenHandler handles the redirect leg of the implicit-grant flow.
// Implements the Handler interface for registration with a Router.
//
// The access token arrives in the URL fragment, which the browser never
// sends to the server. The landing page therefore rewrites the fragment
// into query parameters and reloads /token, where the token is read and
// validated.
type TokenHandler struct {
	state      string
	resultChan chan AuthResult
	once       sync.Once
	tokenHit   bool
	mu         sync.Mutex
}

// NewTokenHandler creates a new token handler expecting the given state token.
// The state token should be cryptographically random for CSRF protection.
func NewTokenHandler(state string) *TokenHandler {
	return &TokenHandler{
		state:      state,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenHandler) Routes() []string {
	return []string{"/", "/token"}
}

// ServeHTTP dispatches between the landing page and the token endpoint.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		h.serveToken(w, r)
		return
	}
	h.serveLanding(w)
}

// serveLanding serves the redirect target. Its only job is moving the
// URL fragment into query parameters so the server can see it.
func (h *TokenHandler) serveLanding(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head><title>Connecting</title></head>
<body>
    <script>
        window.location.replace("/token?" + window.location.hash.substring(1));
    </script>
</body>
</html>
`)
}

// serveToken validates the forwarded fragment parameters and sends the
// result through the result channel.
func (h *TokenHandler) serveToken(w http.ResponseWriter, r *http.Request) {
	// Only handle the token once
	h.mu.Lock()
	if h.tokenHit {
		h.mu.Unlock()
		http.Error(w, "Token already processed", http.StatusBadRequest)
		return
	}
	h.tokenHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		h.Send(AuthResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Send(AuthResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("access_token")
	if token == "" {
		h.Send(AuthResult{err: fmt.Errorf("%w: missing access token", shared.ErrAuthFailed)})
		http.Error(w, "Missing access token", http.StatusBadRequest)
		return
	}

	expiresIn, err := strconv.Atoi(r.URL.Query().Get("expires_in"))
	if err != nil || expiresIn <= 0 {
		h.Send(AuthResult{err: fmt.Errorf("%w: invalid expires_in parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid expires_in parameter", http.StatusBadRequest)
		return
	}

	h.Send(AuthResult{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the authorization result through the channel (only once).
func (h *TokenHandler) Send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *TokenHandler) Result() <-chan AuthResult {
	return h.resultChan
}
