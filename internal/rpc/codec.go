// Package rpc defines the Connect procedures, request/response messages, and
// handler/client constructors for the wongshare API.
//
// Messages are plain Go structs serialized with a JSON codec rather than
// generated protobuf bindings; the constructors mirror the shape a generated
// package would have, so services and tests wire up the same way.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec serializes messages with encoding/json. Registered under the
// name "json" it handles application/json on both handlers and clients.
type jsonCodec struct{}

// Codec returns the codec used by every wongshare handler and client.
func Codec() connect.Codec { return jsonCodec{} }

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}
