package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format.
//
// Layout: MsgType (1 byte) | flags (1 byte) | [text len u32 | text] |
// [err kind (1 byte)] | [err len u32 | err]
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasText    byte = 1 << 0
	hasErrKind byte = 1 << 1
	hasErr     byte = 1 << 2

	knownFlags = hasText | hasErrKind | hasErr
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if uint64(len(msg.Text)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("text too large for binary encoding: %d bytes", len(msg.Text))
	}

	result := make([]byte, b.sizeBytes(msg))
	result[0] = byte(msg.MsgType)

	var flags byte = 0
	pos := 2 // Start after MsgType and flags

	if msg.Text != "" {
		flags |= hasText
		pos = putString(result, pos, msg.Text)
	}

	if msg.ErrKind != common.ErrKNone {
		flags |= hasErrKind
		result[pos] = byte(msg.ErrKind)
		pos++
	}

	if msg.Err != "" {
		flags |= hasErr
		pos = putString(result, pos, msg.Err)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	if flags&^knownFlags != 0 {
		return fmt.Errorf("unknown flags 0x%02x in message header", flags)
	}

	pos := 2
	var err error

	msg.Text = ""
	if flags&hasText != 0 {
		if msg.Text, pos, err = readString(data, pos, "text"); err != nil {
			return err
		}
	}

	msg.ErrKind = common.ErrKNone
	if flags&hasErrKind != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for error kind")
		}
		msg.ErrKind = common.ErrorKind(data[pos])
		pos++
	}

	msg.Err = ""
	if flags&hasErr != 0 {
		if msg.Err, pos, err = readString(data, pos, "error"); err != nil {
			return err
		}
	}

	if pos != len(data) {
		return fmt.Errorf("%d trailing bytes after message", len(data)-pos)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Text != "" {
		size += 4 + len(msg.Text) // 4 bytes for length + text
	}
	if msg.ErrKind != common.ErrKNone {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}

	return size
}

// putString writes a length prefixed string at pos and returns the new position
func putString(buf []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(s)))
	pos += 4
	return pos + copy(buf[pos:], s)
}

// readString reads a length prefixed string at pos and returns it together
// with the new position
func readString(data []byte, pos int, field string) (string, int, error) {
	if pos+4 > len(data) {
		return "", pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n > len(data)-pos {
		return "", pos, fmt.Errorf("data too short for %s data", field)
	}
	return string(data[pos : pos+n]), pos + n, nil
}
