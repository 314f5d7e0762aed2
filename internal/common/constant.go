// Package common contains shared constants and sentinel errors used across
// nutrigate components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries a per-call correlation id from client to server.
const RequestIDHeaderName = "x-request-id"

// MinPasswordLength is the shortest password accepted at sign-up and reset.
const MinPasswordLength = 6
