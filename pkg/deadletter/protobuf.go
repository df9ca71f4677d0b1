package deadletter

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	protoFileName    = "deadletter/v1/dead_letter.proto"
	protoPackage     = "deadletter.v1"
	protoWrapperFile = "google/protobuf/wrappers.proto"

	typeStringValue = ".google.protobuf.StringValue"
	typeInt32Value  = ".google.protobuf.Int32Value"
	typeInt64Value  = ".google.protobuf.Int64Value"
	typeCause       = "." + protoPackage + ".Cause"
)

// protoSchema holds the resolved descriptors of deadletter.v1.DeadLetter.
type protoSchema struct {
	deadLetter protoreflect.MessageDescriptor
	cause      protoreflect.MessageDescriptor

	description protoreflect.FieldDescriptor
	inputValue  protoreflect.FieldDescriptor
	causeField  protoreflect.FieldDescriptor
	topic       protoreflect.FieldDescriptor
	partition   protoreflect.FieldDescriptor
	offset      protoreflect.FieldDescriptor

	message    protoreflect.FieldDescriptor
	stackTrace protoreflect.FieldDescriptor
	errorClass protoreflect.FieldDescriptor
}

// ProtoFileDescriptor returns the schema published for FormatProtobuf.
//
//	message DeadLetter {
//	  string description = 1;
//	  google.protobuf.StringValue input_value = 2;
//	  Cause cause = 3;
//	  google.protobuf.StringValue topic = 4;
//	  google.protobuf.Int32Value partition = 5;
//	  google.protobuf.Int64Value offset = 6;
//	}
//
//	message Cause {
//	  google.protobuf.StringValue message = 1;
//	  google.protobuf.StringValue stack_trace = 2;
//	  google.protobuf.StringValue error_class = 3;
//	}
func ProtoFileDescriptor() *descriptorpb.FileDescriptorProto {
	field := func(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			Number:   proto.Int32(number),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
			TypeName: proto.String(typeName),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFileName),
		Package:    proto.String(protoPackage),
		Syntax:     proto.String("proto3"),
		Dependency: []string{protoWrapperFile},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("DeadLetter"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:   proto.String("description"),
						Number: proto.Int32(1),
						Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
					},
					field("input_value", 2, typeStringValue),
					field("cause", 3, typeCause),
					field("topic", 4, typeStringValue),
					field("partition", 5, typeInt32Value),
					field("offset", 6, typeInt64Value),
				},
			},
			{
				Name: proto.String("Cause"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("message", 1, typeStringValue),
					field("stack_trace", 2, typeStringValue),
					field("error_class", 3, typeStringValue),
				},
			},
		},
	}
}

func newProtoSchema() (*protoSchema, error) {
	// wrappers.proto is registered by the wrapperspb import
	file, err := protodesc.NewFile(ProtoFileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to build proto descriptor: %w", err)
	}

	deadLetter := file.Messages().ByName("DeadLetter")
	cause := file.Messages().ByName("Cause")

	ret := &protoSchema{
		deadLetter: deadLetter,
		cause:      cause,

		description: deadLetter.Fields().ByName("description"),
		inputValue:  deadLetter.Fields().ByName("input_value"),
		causeField:  deadLetter.Fields().ByName("cause"),
		topic:       deadLetter.Fields().ByName("topic"),
		partition:   deadLetter.Fields().ByName("partition"),
		offset:      deadLetter.Fields().ByName("offset"),

		message:    cause.Fields().ByName("message"),
		stackTrace: cause.Fields().ByName("stack_trace"),
		errorClass: cause.Fields().ByName("error_class"),
	}

	return ret, nil
}

// ProtobufConverter copies optional fields only when they are present.
type ProtobufConverter struct {
	schema *protoSchema
}

func NewProtobufConverter() (ProtobufConverter, error) {
	schema, err := newProtoSchema()
	if err != nil {
		return ProtobufConverter{}, err
	}

	return ProtobufConverter{schema: schema}, nil
}

func (c ProtobufConverter) Format() Format {
	return FormatProtobuf
}

func (c ProtobufConverter) Convert(description Description) Record {
	return c.convert(description)
}

func (c ProtobufConverter) convert(description Description) ProtobufRecord {
	s := c.schema

	msg := dynamicpb.NewMessage(s.deadLetter)

	setString(msg, s.inputValue, description.InputValue)

	cause := dynamicpb.NewMessage(s.cause)
	setString(cause, s.message, description.Cause.Message)
	setString(cause, s.stackTrace, description.Cause.StackTrace)
	setString(cause, s.errorClass, description.Cause.ErrorClass)
	msg.Set(s.causeField, protoreflect.ValueOfMessage(cause))

	setString(msg, s.topic, description.Topic)

	partition, ok := description.Partition.Get()
	if ok {
		msg.Set(s.partition, protoreflect.ValueOfMessage(wrapperspb.Int32(partition).ProtoReflect()))
	}

	offset, ok := description.Offset.Get()
	if ok {
		msg.Set(s.offset, protoreflect.ValueOfMessage(wrapperspb.Int64(offset).ProtoReflect()))
	}

	// Required field, no wrapper
	msg.Set(s.description, protoreflect.ValueOfString(description.Description))

	return ProtobufRecord{schema: s, msg: msg}
}

// Decode parses the binary encoding of a ProtobufRecord.
func (c ProtobufConverter) Decode(data []byte) (ProtobufRecord, error) {
	msg := dynamicpb.NewMessage(c.schema.deadLetter)

	err := proto.Unmarshal(data, msg)
	if err != nil {
		return ProtobufRecord{}, fmt.Errorf("failed to unmarshal protobuf dead letter: %w", err)
	}

	return ProtobufRecord{schema: c.schema, msg: msg}, nil
}

func setString(msg *dynamicpb.Message, field protoreflect.FieldDescriptor, value Optional[string]) {
	v, ok := value.Get()
	if !ok {
		return
	}

	msg.Set(field, protoreflect.ValueOfMessage(wrapperspb.String(v).ProtoReflect()))
}

// ProtobufRecord is a deadletter.v1.DeadLetter message.
type ProtobufRecord struct {
	schema *protoSchema
	msg    *dynamicpb.Message
}

func (r ProtobufRecord) Format() Format {
	return FormatProtobuf
}

// Message exposes the underlying protobuf message.
func (r ProtobufRecord) Message() proto.Message {
	return r.msg
}

func (r ProtobufRecord) Marshal() ([]byte, error) {
	ret, err := proto.MarshalOptions{Deterministic: true}.Marshal(r.msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal protobuf dead letter: %w", err)
	}

	return ret, nil
}

func (r ProtobufRecord) MarshalJSON() ([]byte, error) {
	return protojson.Marshal(r.msg)
}

func (r ProtobufRecord) Description() string {
	return r.msg.Get(r.schema.description).String()
}

func (r ProtobufRecord) InputValue() Optional[string] {
	return wrappedString(r.msg, r.schema.inputValue)
}

func (r ProtobufRecord) Topic() Optional[string] {
	return wrappedString(r.msg, r.schema.topic)
}

func (r ProtobufRecord) Partition() Optional[int32] {
	v, ok := wrappedValue(r.msg, r.schema.partition)
	if !ok {
		return None[int32]()
	}

	return Some(int32(v.Int()))
}

func (r ProtobufRecord) Offset() Optional[int64] {
	v, ok := wrappedValue(r.msg, r.schema.offset)
	if !ok {
		return None[int64]()
	}

	return Some(v.Int())
}

func (r ProtobufRecord) CauseMessage() Optional[string] {
	return wrappedString(r.cause(), r.schema.message)
}

func (r ProtobufRecord) CauseStackTrace() Optional[string] {
	return wrappedString(r.cause(), r.schema.stackTrace)
}

func (r ProtobufRecord) CauseErrorClass() Optional[string] {
	return wrappedString(r.cause(), r.schema.errorClass)
}

func (r ProtobufRecord) cause() protoreflect.Message {
	return r.msg.Get(r.schema.causeField).Message()
}

// wrappedValue reads the value field of a google.protobuf wrapper. Nested messages
// may be either the generated wrapper types or dynamic messages after decoding.
func wrappedValue(msg protoreflect.Message, field protoreflect.FieldDescriptor) (protoreflect.Value, bool) {
	if !msg.Has(field) {
		return protoreflect.Value{}, false
	}

	wrapper := msg.Get(field).Message()

	return wrapper.Get(wrapper.Descriptor().Fields().ByName("value")), true
}

func wrappedString(msg protoreflect.Message, field protoreflect.FieldDescriptor) Optional[string] {
	v, ok := wrappedValue(msg, field)
	if !ok {
		return None[string]()
	}

	return Some(v.String())
}
