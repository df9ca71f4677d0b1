package deadletter_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
)

var _ = Describe("Optional values", func() {
	It("should be absent by default", func() {
		var value deadletter.Optional[int32]

		_, ok := value.Get()
		Expect(ok).To(BeFalse())
		Expect(value).To(Equal(deadletter.None[int32]()))
	})

	It("should keep a zero value present", func() {
		value := deadletter.Some(int32(0))

		v, ok := value.Get()
		Expect(ok).To(BeTrue())
		Expect(v).To(BeZero())
	})

	It("should map nil pointers to absent values", func() {
		s := "value"

		Expect(deadletter.OptionalOf[string](nil).IsPresent()).To(BeFalse())
		Expect(deadletter.OptionalOf(&s)).To(Equal(deadletter.Some("value")))
	})

	Context("decoding a description from json", func() {
		It("should treat missing keys and null as absent", func() {
			description := deadletter.Description{}

			err := json.Unmarshal([]byte(`{
				"description": "description",
				"topic": null,
				"partition": 0,
				"cause": {"message": "message"}
			}`), &description)
			Expect(err).NotTo(HaveOccurred())

			Expect(description.Description).To(Equal("description"))
			Expect(description.Topic.IsPresent()).To(BeFalse(), "topic")
			Expect(description.Offset.IsPresent()).To(BeFalse(), "offset")
			Expect(description.Partition).To(Equal(deadletter.Some(int32(0))))
			Expect(description.Cause.Message).To(Equal(deadletter.Some("message")))
			Expect(description.Cause.StackTrace.IsPresent()).To(BeFalse(), "cause.stackTrace")
		})

		It("should fail on a type mismatch", func() {
			description := deadletter.Description{}

			err := json.Unmarshal([]byte(`{"partition": "one"}`), &description)
			Expect(err).To(HaveOccurred())
		})
	})

	It("should encode absent values as null", func() {
		data, err := json.Marshal(deadletter.Description{Description: "description", Offset: deadletter.Some(int64(3))})
		Expect(err).NotTo(HaveOccurred())

		Expect(data).To(MatchJSON(`{
			"description": "description",
			"inputValue": null,
			"topic": null,
			"partition": null,
			"offset": 3,
			"cause": {"message": null, "stackTrace": null, "errorClass": null}
		}`))
	})
})
