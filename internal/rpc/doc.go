// Package rpc defines the nutrigate.v1.Nutrigate gRPC contract shared by the
// client and the server: request/response messages, the service descriptor,
// the server interface and a client stub.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content-subtype. Client stubs select it per call with
// grpc.CallContentSubtype, so the standard health service keeps using
// protobuf on the same connection.
package rpc
