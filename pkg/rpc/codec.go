// Package rpc defines the GiftCircle wire messages, procedure names and
// typed Connect clients.
//
// Messages are plain Go structs carried as JSON. Handlers and clients must
// be built with WithCodec so the "json" codec encodes them.
package rpc

import (
	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// Codec is the JSON codec shared by handlers and clients.
var Codec connect.Codec = jsonCodec{}

// WithCodec registers Codec on a handler or client.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
