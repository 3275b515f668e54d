package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"io"
)

// NewJSONSerializer creates a new serializer using json encoding.
// It is the readable choice for debugging, the binary format is more compact.
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Deserialize accepts exactly one json object. Unknown fields and trailing
// data are rejected.
func (j jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	*msg = common.Message{}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("invalid json message: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid json message: trailing data after object")
	}
	return nil
}
