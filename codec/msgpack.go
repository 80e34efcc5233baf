package codec

import "github.com/vmihailenco/msgpack/v5"

// MsgPack encodes values as MessagePack. Struct fields are matched by name,
// or by the msgpack tag when one is set.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

func (MsgPack) Name() string { return "msgpack" }
