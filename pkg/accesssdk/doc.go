// Package accesssdk holds the request and response types for the access
// service HTTP API, shared between the server handlers and Go clients so the
// wire contract lives in one place.
package accesssdk
