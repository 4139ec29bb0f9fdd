// Package handler implements the todo backend endpoints served by
// todo-stub: account sign-up and login, the caller's profile, and
// per-user todo CRUD.
//
// Error bodies follow the {"detail": ...} shape the mobile client
// parses: a string for ordinary failures and a list of
// {"loc","msg","type"} entries for validation failures (HTTP 422).
package handler
