// Package api defines the balance.v1 RPC messages and their Connect bindings.
//
// Messages are plain Go structs carried by a JSON codec, so any Connect,
// gRPC-Web or plain HTTP client posting application/json can call the
// services.
package api

import (
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name. It replaces the built-in protojson codec.
const CodecName = "json"

// JSONCodec marshals messages with encoding/json.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal treats an empty payload as an empty message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// handlerOptions puts the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)...)
}

// clientOptions makes clients speak the Connect protocol with the JSON codec.
func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)...)
}

// serviceMux routes requests under a service prefix to their procedure handlers.
type serviceMux map[string]http.Handler

func (m serviceMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}
