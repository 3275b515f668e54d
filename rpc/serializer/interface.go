package serializer

import "github.com/ValentinKolb/rpClip/rpc/common"

// IRPCSerializer converts Messages to frame payloads and back. Client and
// server must use the same implementation, the payload carries no format tag.
type IRPCSerializer interface {
	// Serialize encodes msg into a new byte slice
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. All fields of msg are overwritten, also
	// when decoding fails. Truncated, malformed or trailing data is an error.
	Deserialize(b []byte, msg *common.Message) error
}
