package block

import "encoding/binary"

// encodeWorkBE renders the work nonce big-endian, the wire form used in
// canonical JSON for every variant ("work" is hex).
func encodeWorkBE(w Work) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(w))
	return out[:]
}

// decodeWorkBE parses a big-endian work nonce.
func decodeWorkBE(b []byte) Work {
	return Work(binary.BigEndian.Uint64(b))
}

// ZeroHash is the all-zero 256-bit hash, used by open's Previous() and as
// the sentinel "no source" value.
var ZeroHash Hash
