package deadletter

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	magicByte  byte = 0
	headerSize      = 5
)

var ErrInvalidFrame = errors.New("invalid wire frame")

// Frame prepends the schema registry wire header to payload: a magic byte and the
// big-endian schema id, followed for protobuf by the message index of DeadLetter.
// A zero schemaID leaves payload untouched.
func Frame(format Format, schemaID uint32, payload []byte) []byte {
	if schemaID == 0 {
		return payload
	}

	ret := make([]byte, headerSize, headerSize+1+len(payload))
	ret[0] = magicByte
	binary.BigEndian.PutUint32(ret[1:headerSize], schemaID)

	if format == FormatProtobuf {
		// DeadLetter is the first message of the file: index array [0] is encoded as a single 0
		ret = binary.AppendVarint(ret, 0)
	}

	return append(ret, payload...)
}

// Unframe strips the header written by Frame and returns the schema id.
func Unframe(format Format, data []byte) (uint32, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrInvalidFrame, len(data))
	}

	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: magic byte %d", ErrInvalidFrame, data[0])
	}

	schemaID := binary.BigEndian.Uint32(data[1:headerSize])
	payload := data[headerSize:]

	if format != FormatProtobuf {
		return schemaID, payload, nil
	}

	count, n := binary.Varint(payload)
	if n <= 0 || count < 0 {
		return 0, nil, fmt.Errorf("%w: message index count", ErrInvalidFrame)
	}

	payload = payload[n:]

	for i := int64(0); i < count; i++ {
		_, n = binary.Varint(payload)
		if n <= 0 {
			return 0, nil, fmt.Errorf("%w: message index %d", ErrInvalidFrame, i)
		}

		payload = payload[n:]
	}

	return schemaID, payload, nil
}
