// Package services implements HTTP clients for the external providers the
// application depends on: the Spotify Web API and a GoTrue-compatible
// identity server.
//
// # Catalog Interface
//
// Music catalog operations go through the [Catalog] abstraction so playlist
// assembly and publishing never touch provider-specific types.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication. The [OAuthService]
// interface extends [Catalog] for the server-side authorization code flow
// used by the CLI. Requests pass through a [rate.Limiter] before hitting
// the network.
//
// # Identity Implementation
//
// [IdentityService] talks to a GoTrue-compatible auth server: password
// sign-in, sign-up, sign-out, password recovery, and password update.
// Every request carries the project anon key in the apikey header.
//
// # Error Handling
//
// Non-2xx responses become [APIError] values carrying the upstream status
// and message. Clients wrap them in sentinels from the shared package:
//   - [shared.ErrSessionMissing] : no token held, Authenticate not called
//   - [shared.ErrTokenExpired] : Spotify returned 401, reauthorization needed
//   - [shared.ErrAuthFailed] : identity server rejected the request
//   - [shared.ErrAPIRequest] : transport-level failure
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
package services
