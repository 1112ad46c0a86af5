// Package services implements typed HTTP clients for the three brain backends: the goal tracker
// ([GoalsClient]), the social reader media proxy ([MediaClient]) and the creator portfolio ([PortfolioClient]).
//
// # Request Core
//
// Every client embeds the same request core, which joins paths onto the configured base URL, encodes JSON bodies,
// sets Accept and User-Agent headers and decodes 2xx responses. Empty bodies and 204 responses are tolerated.
//
// A configured bearer token is attached through an [oauth2.Transport] backed by a static token source. Token
// acquisition itself is left to the identity provider.
//
// # Error Handling
//
// Non-2xx responses become an [*APIError] carrying either the plain FastAPI detail string or the parsed 422
// validation entries. APIError unwraps to a shared sentinel:
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrValidation] : 422
//   - [shared.ErrServiceUnavailable] : 502, 503, 504 or an unreachable backend
//   - [shared.ErrAPIRequest] : anything else
//
// Identifiers are checked as UUIDs and payloads are validated before any request is sent, so malformed input
// never reaches the network. Nothing is retried.
//
// # Raw Access
//
// [APIService] sends arbitrary requests and returns the status, headers and body untouched, for the `brain api`
// command.
package services
