// Package gateway is the single path for calls to the todo backend.
//
// Every request reads the current token from the token store at call
// time, carries it as a bearer credential when present, and is bounded
// by a fixed timeout. Failures are classified into three kinds:
//
//   - NetworkUnreachable: no response arrived (connection error, timeout)
//   - HTTPStatus: a non-2xx response, with the server's detail extracted
//   - RequestFailedLocally: the request never left the client
//
// The gateway never retries and never touches session state. Callers
// decide what to do with a 401.
package gateway
