// Package client talks to the nutrigate backend.
//
// The Client interface is the contract used by the services layer; GRPCClient
// is its implementation over gRPC with the JSON codec from package rpc. It
// keeps the access/refresh token pair under a mutex, attaches the access
// token to every call, refreshes once when the server reports an expired
// token, and maps gRPC status codes to the sentinel errors in errors.go.
//
// InitDatabase opens the local SQLite store and applies the embedded goose
// migrations; NewRepositories wires the repositories on top of it.
package client
