package deadletter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/protobuf/proto"

	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
)

// Helper

func fullDescription() deadletter.Description {
	return deadletter.Description{
		Description: "description",
		InputValue:  deadletter.Some("inputValue"),
		Topic:       deadletter.Some("topic"),
		Partition:   deadletter.Some(int32(1)),
		Offset:      deadletter.Some(int64(1)),
		Cause: deadletter.Cause{
			Message:    deadletter.Some("message"),
			StackTrace: deadletter.Some("stackTrace"),
			ErrorClass: deadletter.Some("errorClass"),
		},
	}
}

func emptyDescription() deadletter.Description {
	return deadletter.Description{Description: "description"}
}

// Test factory

var _ = Describe("Creating a converter", func() {
	DescribeTable("from a format",
		func(format deadletter.Format) {
			converter, err := deadletter.NewConverter(format)
			Expect(err).NotTo(HaveOccurred())
			Expect(converter.Format()).To(Equal(format))
		},
		Entry("protobuf", deadletter.FormatProtobuf),
		Entry("avro", deadletter.FormatAvro),
	)

	It("should fail with an unknown format", func() {
		_, err := deadletter.NewConverter("json")
		Expect(err).To(MatchError(deadletter.ErrUnknownFormat))
	})

	DescribeTable("parsing a format",
		func(input string, expected deadletter.Format, valid bool) {
			format, err := deadletter.ParseFormat(input)
			if !valid {
				Expect(err).To(MatchError(deadletter.ErrUnknownFormat))

				return
			}

			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal(expected))
		},
		Entry("protobuf", "protobuf", deadletter.FormatProtobuf, true),
		Entry("upper case avro", "AVRO", deadletter.FormatAvro, true),
		Entry("padded", " avro ", deadletter.FormatAvro, true),
		Entry("empty", "", deadletter.Format(""), false),
		Entry("unknown", "thrift", deadletter.Format(""), false),
	)
})

// Test protobuf converter

var _ = Describe("Converting with the protobuf converter", func() {
	var converter deadletter.ProtobufConverter

	BeforeEach(func() {
		var err error

		converter, err = deadletter.NewProtobufConverter()
		Expect(err).NotTo(HaveOccurred())
	})

	convert := func(description deadletter.Description) deadletter.ProtobufRecord {
		record := converter.Convert(description)
		Expect(record.Format()).To(Equal(deadletter.FormatProtobuf))

		ret, ok := record.(deadletter.ProtobufRecord)
		Expect(ok).To(BeTrue(), "record is a ProtobufRecord")

		return ret
	}

	When("every optional field is set", func() {
		It("should set every field", func() {
			record := convert(fullDescription())

			Expect(record.Description()).To(Equal("description"))
			Expect(record.InputValue()).To(Equal(deadletter.Some("inputValue")))
			Expect(record.Topic()).To(Equal(deadletter.Some("topic")))
			Expect(record.Partition()).To(Equal(deadletter.Some(int32(1))))
			Expect(record.Offset()).To(Equal(deadletter.Some(int64(1))))
			Expect(record.CauseMessage()).To(Equal(deadletter.Some("message")))
			Expect(record.CauseStackTrace()).To(Equal(deadletter.Some("stackTrace")))
			Expect(record.CauseErrorClass()).To(Equal(deadletter.Some("errorClass")))
		})
	})

	When("every optional field is absent", func() {
		It("should only set the description", func() {
			record := convert(emptyDescription())

			Expect(record.Description()).To(Equal("description"))
			Expect(record.InputValue().IsPresent()).To(BeFalse(), "inputValue")
			Expect(record.Topic().IsPresent()).To(BeFalse(), "topic")
			Expect(record.Partition().IsPresent()).To(BeFalse(), "partition")
			Expect(record.Offset().IsPresent()).To(BeFalse(), "offset")
			Expect(record.CauseMessage().IsPresent()).To(BeFalse(), "cause.message")
			Expect(record.CauseStackTrace().IsPresent()).To(BeFalse(), "cause.stackTrace")
			Expect(record.CauseErrorClass().IsPresent()).To(BeFalse(), "cause.errorClass")
		})
	})

	When("only the cause message is set", func() {
		It("should only set the cause message", func() {
			description := emptyDescription()
			description.Cause.Message = deadletter.Some("message")

			record := convert(description)

			Expect(record.CauseMessage()).To(Equal(deadletter.Some("message")))
			Expect(record.CauseStackTrace().IsPresent()).To(BeFalse(), "cause.stackTrace")
			Expect(record.CauseErrorClass().IsPresent()).To(BeFalse(), "cause.errorClass")
			Expect(record.InputValue().IsPresent()).To(BeFalse(), "inputValue")
			Expect(record.Topic().IsPresent()).To(BeFalse(), "topic")
			Expect(record.Partition().IsPresent()).To(BeFalse(), "partition")
			Expect(record.Offset().IsPresent()).To(BeFalse(), "offset")
		})
	})

	When("optional fields are set to zero values", func() {
		var description deadletter.Description

		BeforeEach(func() {
			description = emptyDescription()
			description.InputValue = deadletter.Some("")
			description.Topic = deadletter.Some("")
			description.Partition = deadletter.Some(int32(0))
			description.Offset = deadletter.Some(int64(0))
		})

		It("should keep them present", func() {
			record := convert(description)

			Expect(record.InputValue()).To(Equal(deadletter.Some("")))
			Expect(record.Topic()).To(Equal(deadletter.Some("")))
			Expect(record.Partition()).To(Equal(deadletter.Some(int32(0))))
			Expect(record.Offset()).To(Equal(deadletter.Some(int64(0))))
		})

		It("should keep them present after a round trip on the wire", func() {
			data, err := convert(description).Marshal()
			Expect(err).NotTo(HaveOccurred())

			decoded, err := converter.Decode(data)
			Expect(err).NotTo(HaveOccurred())

			Expect(decoded.Partition()).To(Equal(deadletter.Some(int32(0))))
			Expect(decoded.Offset()).To(Equal(deadletter.Some(int64(0))))
			Expect(decoded.Topic()).To(Equal(deadletter.Some("")))
			Expect(decoded.CauseMessage().IsPresent()).To(BeFalse(), "cause.message")
		})
	})

	It("should keep absent fields absent after a round trip on the wire", func() {
		data, err := convert(emptyDescription()).Marshal()
		Expect(err).NotTo(HaveOccurred())

		decoded, err := converter.Decode(data)
		Expect(err).NotTo(HaveOccurred())

		Expect(decoded.Description()).To(Equal("description"))
		Expect(decoded.Partition().IsPresent()).To(BeFalse(), "partition")
		Expect(decoded.Offset().IsPresent()).To(BeFalse(), "offset")
	})

	It("should decode a full record to an equal message", func() {
		record := convert(fullDescription())

		data, err := record.Marshal()
		Expect(err).NotTo(HaveOccurred())

		decoded, err := converter.Decode(data)
		Expect(err).NotTo(HaveOccurred())

		Expect(proto.Equal(record.Message(), decoded.Message())).To(BeTrue())
	})

	It("should be idempotent", func() {
		first := convert(fullDescription())
		second := convert(fullDescription())

		Expect(proto.Equal(first.Message(), second.Message())).To(BeTrue())

		firstBytes, err := first.Marshal()
		Expect(err).NotTo(HaveOccurred())

		secondBytes, err := second.Marshal()
		Expect(err).NotTo(HaveOccurred())

		Expect(firstBytes).To(Equal(secondBytes))
	})

	It("should render absent fields as missing json keys", func() {
		data, err := convert(emptyDescription()).MarshalJSON()
		Expect(err).NotTo(HaveOccurred())

		Expect(data).To(MatchJSON(`{"description": "description", "cause": {}}`))
	})

	It("should render wrappers as plain json values", func() {
		description := emptyDescription()
		description.Partition = deadletter.Some(int32(0))

		data, err := convert(description).MarshalJSON()
		Expect(err).NotTo(HaveOccurred())

		Expect(data).To(MatchJSON(`{"description": "description", "cause": {}, "partition": 0}`))
	})

	It("should fail to decode garbage", func() {
		_, err := converter.Decode([]byte{0xff, 0xff, 0xff})
		Expect(err).To(HaveOccurred())
	})
})

// Test avro converter

var _ = Describe("Converting with the avro converter", func() {
	var converter deadletter.AvroConverter

	BeforeEach(func() {
		var err error

		converter, err = deadletter.NewAvroConverter()
		Expect(err).NotTo(HaveOccurred())
	})

	convert := func(description deadletter.Description) deadletter.AvroRecord {
		record := converter.Convert(description)
		Expect(record.Format()).To(Equal(deadletter.FormatAvro))

		ret, ok := record.(deadletter.AvroRecord)
		Expect(ok).To(BeTrue(), "record is an AvroRecord")

		return ret
	}

	When("every optional field is set", func() {
		It("should copy every field", func() {
			record := convert(fullDescription())

			Expect(record.Description).To(Equal("description"))
			Expect(record.InputValue).To(Equal("inputValue"))
			Expect(record.Topic).To(Equal("topic"))
			Expect(record.Partition).To(Equal(int32(1)))
			Expect(record.Offset).To(Equal(int64(1)))
			Expect(record.Cause).To(Equal(deadletter.AvroCause{
				Message:    "message",
				StackTrace: "stackTrace",
				ErrorClass: "errorClass",
			}))
		})
	})

	When("every optional field is absent", func() {
		It("should write zero values", func() {
			record := convert(emptyDescription())

			Expect(record.Description).To(Equal("description"))
			Expect(record.InputValue).To(BeEmpty())
			Expect(record.Topic).To(BeEmpty())
			Expect(record.Partition).To(BeZero())
			Expect(record.Offset).To(BeZero())
			Expect(record.Cause).To(BeZero())
		})

		It("should still write every field on the wire", func() {
			data, err := convert(emptyDescription()).MarshalJSON()
			Expect(err).NotTo(HaveOccurred())

			Expect(data).To(MatchJSON(`{
				"description": "description",
				"inputValue": "",
				"cause": {"message": "", "stackTrace": "", "errorClass": ""},
				"topic": "",
				"partition": 0,
				"offset": 0
			}`))
		})
	})

	It("should decode what it encodes", func() {
		record := convert(fullDescription())

		data, err := record.Marshal()
		Expect(err).NotTo(HaveOccurred())

		decoded, err := converter.Decode(data)
		Expect(err).NotTo(HaveOccurred())

		Expect(decoded).To(Equal(record))
	})

	It("should be idempotent", func() {
		Expect(convert(fullDescription())).To(Equal(convert(fullDescription())))
	})

	It("should fail to decode a truncated record", func() {
		data, err := convert(fullDescription()).Marshal()
		Expect(err).NotTo(HaveOccurred())

		_, err = converter.Decode(data[:len(data)/2])
		Expect(err).To(HaveOccurred())
	})
})
