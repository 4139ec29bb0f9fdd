// Package service provides the client-side session services.
//
// This package contains:
//
//   - SessionMachine: bootstrap, sign-in, sign-up and sign-out, with the
//     durable token write always ordered before the in-memory transition
//   - Notifier: a single-slot notification holder with auto-expiry
//
// Both are explicitly constructed and safe for concurrent use. State
// changes are pushed to subscribers in publication order.
package service
