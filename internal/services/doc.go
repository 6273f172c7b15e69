// Package services defines the [Service] interface for the wishlist HTTP API and implements it with [WishlistService].
//
// # Envelopes
//
// Every mutating endpoint answers with a JSON envelope decoded into [models.Result]. A status of 1 is the
// only success. The envelope is returned whenever one could be decoded, whatever the HTTP status, so
// callers can show the server's message.
//
// # Tokens
//
// The access token is passed in by the caller on each call and travels as the token query parameter,
// except for mark where it is part of the JSON body.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrTransport] : no response (connection failure, timeout, unreadable body)
//   - [shared.ErrUnexpectedResponse] : a response that is not an envelope
//   - [shared.ErrAPIRequest] : the item list endpoint answered with an error status
//
// # Rate Limiting
//
// An optional [rate.Limiter] spaces requests out; it never drops or reorders them.
package services
