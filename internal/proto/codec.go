package proto

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype under which the codec is registered.
// Clients select it with grpc.CallContentSubtype(CodecName).
const CodecName = "gophnotes"

type codec struct{}

func (codec) Name() string { return CodecName }

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("gophnotes codec: cannot marshal %T", v)
	}
	return m.MarshalWire()
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("gophnotes codec: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func init() {
	encoding.RegisterCodec(codec{})
}
