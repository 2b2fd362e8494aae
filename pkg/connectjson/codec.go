// Package connectjson provides a connect codec for plain Go structs so that
// RPC messages can be declared without generated protobuf types.
package connectjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Name matches the codec name connect negotiates for application/json, so
// this codec replaces the protojson one when registered.
const Name = "json"

type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return Name }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("invalid json message: %w", err)
	}
	return nil
}

// WithCodec is the option both handlers and clients need.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
