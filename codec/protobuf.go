package codec

import "google.golang.org/protobuf/proto"

// Protobuf serializes proto.Message payloads — the densest of the
// schema-driven options, worth it when the messages crossing a slow
// optical link already have a proto definition. Decode needs a concrete
// message to unmarshal into, so construct with NewProtobuf.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *sensorpb.Reading { return &sensorpb.Reading{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
