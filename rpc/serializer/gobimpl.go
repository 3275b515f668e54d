package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format.
// Every message carries its own type description, which makes gob the
// largest of the three formats for short clipboard texts.
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to encode gob message: %w", err)
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	// gob leaves fields untouched that are zero on the wire
	*msg = common.Message{}

	buf := bytes.NewReader(b)
	if err := gob.NewDecoder(buf).Decode(msg); err != nil {
		return fmt.Errorf("invalid gob message: %w", err)
	}
	if buf.Len() != 0 {
		return fmt.Errorf("invalid gob message: %d trailing bytes", buf.Len())
	}
	return nil
}
