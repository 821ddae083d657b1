package block

import "fmt"

// Decode parses a tagged wire-form block: a 1-byte type tag followed by
// the variant's canonical fields.
func Decode(raw []byte) (Block, error) {
	if len(raw) < 1 {
		return nil, parseErr("block", "empty input")
	}
	tag := Type(raw[0])
	body := raw[1:]
	switch tag {
	case TypeSend:
		return DecodeSend(body)
	case TypeReceive:
		return DecodeReceive(body)
	case TypeOpen:
		return DecodeOpen(body)
	case TypeChange:
		return DecodeChange(body)
	case TypeState:
		return DecodeState(body)
	default:
		return nil, parseErr("block", fmt.Sprintf("unknown type tag %d", tag))
	}
}

// Encode returns the tagged wire form: type tag followed by the block's
// canonical encoding.
func Encode(b Block) []byte {
	out := make([]byte, 0, 1+128)
	out = append(out, byte(b.Type()))
	out = append(out, b.Encode()...)
	return out
}
