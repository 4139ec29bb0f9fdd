// Package httpserver serves the development todo backend over HTTP.
//
// Routing uses gorilla/mux. Public routes are /, /auth/signup and
// /auth/login; /me and /todos require a bearer token issued by
// /auth/login. Every response carries an X-Request-ID header.
package httpserver
