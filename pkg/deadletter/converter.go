// Package deadletter converts dead letter descriptions into records ready to be
// published on an error topic.
package deadletter

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown dead letter format")

type Format string

const (
	// FormatProtobuf keeps optional fields absent on the wire using google.protobuf wrappers.
	FormatProtobuf Format = "protobuf"
	// FormatAvro has no notion of presence: absent fields are written as zero values.
	FormatAvro Format = "avro"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatProtobuf:
		return FormatProtobuf, nil
	case FormatAvro:
		return FormatAvro, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Record is a converted dead letter.
type Record interface {
	Format() Format
	// Marshal returns the binary encoding of the record.
	Marshal() ([]byte, error)
	MarshalJSON() ([]byte, error)
}

// Converter maps a Description to a Record. Implementations are stateless and safe
// for concurrent use.
type Converter interface {
	Convert(description Description) Record
	Format() Format
}

func NewConverter(format Format) (Converter, error) {
	switch format {
	case FormatProtobuf:
		ret, err := NewProtobufConverter()
		if err != nil {
			return nil, err
		}

		return ret, nil
	case FormatAvro:
		ret, err := NewAvroConverter()
		if err != nil {
			return nil, err
		}

		return ret, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
