package deadletter

import (
	"errors"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

var ErrUnexpectedAvroValue = errors.New("unexpected avro value")

// AvroSchema is the schema published for FormatAvro. Every field is required.
const AvroSchema = `{
	"type": "record",
	"name": "DeadLetter",
	"namespace": "deadletter.v1",
	"fields": [
		{"name": "description", "type": "string"},
		{"name": "inputValue", "type": "string"},
		{"name": "cause", "type": {
			"type": "record",
			"name": "Cause",
			"fields": [
				{"name": "message", "type": "string"},
				{"name": "stackTrace", "type": "string"},
				{"name": "errorClass", "type": "string"}
			]
		}},
		{"name": "topic", "type": "string"},
		{"name": "partition", "type": "int"},
		{"name": "offset", "type": "long"}
	]
}`

// AvroConverter copies every field unconditionally: absent values become zero values.
type AvroConverter struct {
	codec *goavro.Codec
}

func NewAvroConverter() (AvroConverter, error) {
	codec, err := goavro.NewCodec(AvroSchema)
	if err != nil {
		return AvroConverter{}, fmt.Errorf("failed to create avro codec: %w", err)
	}

	return AvroConverter{codec: codec}, nil
}

func (c AvroConverter) Format() Format {
	return FormatAvro
}

func (c AvroConverter) Convert(description Description) Record {
	return c.convert(description)
}

func (c AvroConverter) convert(description Description) AvroRecord {
	return AvroRecord{
		Description: description.Description,
		InputValue:  description.InputValue.OrZero(),
		Cause: AvroCause{
			Message:    description.Cause.Message.OrZero(),
			StackTrace: description.Cause.StackTrace.OrZero(),
			ErrorClass: description.Cause.ErrorClass.OrZero(),
		},
		Topic:     description.Topic.OrZero(),
		Partition: description.Partition.OrZero(),
		Offset:    description.Offset.OrZero(),

		codec: c.codec,
	}
}

// Decode parses the binary encoding of an AvroRecord.
func (c AvroConverter) Decode(data []byte) (AvroRecord, error) {
	native, _, err := c.codec.NativeFromBinary(data)
	if err != nil {
		return AvroRecord{}, fmt.Errorf("failed to decode avro dead letter: %w", err)
	}

	fields, ok := native.(map[string]interface{})
	if !ok {
		return AvroRecord{}, fmt.Errorf("%w: record is %T", ErrUnexpectedAvroValue, native)
	}

	causeFields, ok := fields["cause"].(map[string]interface{})
	if !ok {
		return AvroRecord{}, fmt.Errorf("%w: cause is %T", ErrUnexpectedAvroValue, fields["cause"])
	}

	ret := AvroRecord{codec: c.codec}
	decoder := avroFieldDecoder{}

	ret.Description = decoder.string(fields, "description")
	ret.InputValue = decoder.string(fields, "inputValue")
	ret.Topic = decoder.string(fields, "topic")
	ret.Partition = decoder.int32(fields, "partition")
	ret.Offset = decoder.int64(fields, "offset")
	ret.Cause.Message = decoder.string(causeFields, "message")
	ret.Cause.StackTrace = decoder.string(causeFields, "stackTrace")
	ret.Cause.ErrorClass = decoder.string(causeFields, "errorClass")

	if decoder.err != nil {
		return AvroRecord{}, decoder.err
	}

	return ret, nil
}

// AvroRecord is a deadletter.v1.DeadLetter avro record.
type AvroRecord struct {
	Description string
	InputValue  string
	Cause       AvroCause
	Topic       string
	Partition   int32
	Offset      int64

	codec *goavro.Codec
}

type AvroCause struct {
	Message    string
	StackTrace string
	ErrorClass string
}

func (r AvroRecord) Format() Format {
	return FormatAvro
}

func (r AvroRecord) Marshal() ([]byte, error) {
	ret, err := r.codec.BinaryFromNative(nil, r.native())
	if err != nil {
		return nil, fmt.Errorf("failed to encode avro dead letter: %w", err)
	}

	return ret, nil
}

func (r AvroRecord) MarshalJSON() ([]byte, error) {
	ret, err := r.codec.TextualFromNative(nil, r.native())
	if err != nil {
		return nil, fmt.Errorf("failed to encode avro dead letter: %w", err)
	}

	return ret, nil
}

func (r AvroRecord) native() map[string]interface{} {
	return map[string]interface{}{
		"description": r.Description,
		"inputValue":  r.InputValue,
		"cause": map[string]interface{}{
			"message":    r.Cause.Message,
			"stackTrace": r.Cause.StackTrace,
			"errorClass": r.Cause.ErrorClass,
		},
		"topic":     r.Topic,
		"partition": r.Partition,
		"offset":    r.Offset,
	}
}

// avroFieldDecoder keeps the first type mismatch.
type avroFieldDecoder struct {
	err error
}

func (d *avroFieldDecoder) string(fields map[string]interface{}, name string) string {
	ret, ok := fields[name].(string)
	if !ok {
		d.fail(name, fields[name])
	}

	return ret
}

func (d *avroFieldDecoder) int32(fields map[string]interface{}, name string) int32 {
	ret, ok := fields[name].(int32)
	if !ok {
		d.fail(name, fields[name])
	}

	return ret
}

func (d *avroFieldDecoder) int64(fields map[string]interface{}, name string) int64 {
	ret, ok := fields[name].(int64)
	if !ok {
		d.fail(name, fields[name])
	}

	return ret
}

func (d *avroFieldDecoder) fail(name string, value interface{}) {
	if d.err != nil {
		return
	}

	d.err = fmt.Errorf("%w: %s is %T", ErrUnexpectedAvroValue, name, value)
}
