// Package client is the gatherly client's view of the remote backend.
//
// # Overview
//
// The Client interface is a typed CRUD surface over the remote tables
// (events, invitations, event_photos, wishlist_items, user_profiles) and the
// object storage buckets. RESTClient implements it over a PostgREST style
// HTTP contract. HealthChecker probes the backend's gRPC health service to
// switch between online and offline mode.
//
// # Authentication
//
// Every data operation consults the injected Session first. Without an
// authenticated session the call fails with ErrUnauthenticated and no request
// is made.
//
// # Error Handling
//
// HTTP failures map to sentinel errors matched with errors.Is:
// ErrUnauthorized (401/403), ErrNotFound (404 or an empty representation on
// update/delete), ErrAlreadyExists (409), ErrUnavailable (5xx, transport
// failures, timeouts) and ErrMalformedResponse (undecodable body).
package client
