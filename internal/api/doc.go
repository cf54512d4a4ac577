// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts external clients to the internal study,
// auth, and store services: handlers decode and validate payloads, call one
// service operation, and translate its result or error into an HTTP
// response. Error-to-status mapping lives here and nowhere else.
package api
