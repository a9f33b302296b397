// Package server provides the loopback HTTP handler for the Spotify
// implicit-grant flow.
//
// # Token Handler
//
// [TokenHandler] implements the redirect leg of the implicit-grant flow.
//
// Spotify delivers the access token in the URL fragment, which browsers
// strip before making the request. The landing page served at / rewrites
// the fragment into query parameters and reloads /token, where the
// handler validates the state parameter (CSRF protection) and sends the
// token through a channel.
//
// It only processes one token to prevent replay attacks.
//
// # Usage
//
// When the user runs the auth command, a temporary HTTP server starts on
// the configured loopback address, serves a [TokenHandler] through a
// [BasicRouter], and shuts down after the token arrives.
package server
