// Package common contains shared constants and sentinel errors used across
// gcstorage components.
package common

// DefaultMimeType is the content type sent when a file exposes none.
const DefaultMimeType = "application/octet-stream"

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// ETagHeaderName is the storage response header holding the object
// validation token.
const ETagHeaderName = "ETag"

// APIPrefix is the path prefix of the REST API served by the backend.
const APIPrefix = "/api/v1"
