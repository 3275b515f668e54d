package base

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"io"
	"net"
)

// headerSize is the size of the frame header (requestID + length)
const headerSize = 12

// writeFrame writes a frame to the connection with the format:
// - 8 bytes: requestID (uint64, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func writeFrame(conn net.Conn, requestID uint64, data []byte) error {
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint64(header[:8], requestID)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer
// If the buffer is too small, it will allocate a new temporary buffer for the data.
// Frames larger than maxSize are rejected with a protocol error before the
// payload is read.
func readFrame(conn net.Conn, buf []byte, maxSize int) (uint64, []byte, error) {
	if len(buf) < headerSize {
		buf = make([]byte, headerSize)
	}

	// Read header
	if _, err := io.ReadFull(conn, buf[:headerSize]); err != nil {
		return 0, nil, err
	}

	requestID := binary.BigEndian.Uint64(buf[:8])
	contentLength := binary.BigEndian.Uint32(buf[8:12])

	if maxSize > 0 && uint64(contentLength) > uint64(maxSize) {
		return requestID, nil, common.NewRPCError(common.ErrKProtocol,
			fmt.Sprintf("frame of %d bytes exceeds limit of %d bytes", contentLength, maxSize))
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return requestID, []byte{}, nil
	}

	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}

	return requestID, buf[:contentLength], nil
}
