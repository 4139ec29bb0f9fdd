// Package domain defines the core client-side models of the todo app.
//
// Domain models are pure values without any IO dependencies:
//
//   - SessionState: the authentication state mirrored from the token store
//   - Credentials: email/password pairs and their preflight validation
//   - Notification: advisory messages surfaced to the user
//   - Todo, Profile: payloads exchanged with the backend
//   - Errors: client error codes (validation, session, storage)
package domain
