package pipeline_test

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

var _ = Describe("Processing errors", func() {
	When("converting an error", func() {
		It("should keep an existing processing error", func() {
			source := pipeline.NewErrProcessingError(errOneError, oneCategory, nil)

			ret := pipeline.AsProcessingError(fmt.Errorf("wrapped: %w", source))
			Expect(ret.Category).To(Equal(oneCategory))
			Expect(ret).To(MatchError(errOneError))
		})

		It("should use the unknown category otherwise", func() {
			ret := pipeline.AsProcessingError(errOneError)
			Expect(ret.Category).To(Equal(pipeline.UnknownCategory))
			Expect(ret).To(MatchError(errOneError))
		})
	})

	When("attaching the source message", func() {
		It("should not override an existing one", func() {
			first := &sarama.ConsumerMessage{Offset: 1}
			second := &sarama.ConsumerMessage{Offset: 2}

			ret := pipeline.NewErrProcessingError(errOneError, oneCategory, nil).WithEvent(first).WithEvent(second)
			Expect(ret.Event).To(BeIdenticalTo(first))
		})
	})

	It("should describe an error without cause by its category", func() {
		Expect(pipeline.NewErrProcessingError(nil, pipeline.EmptyMessageCategory, nil).Error()).To(Equal(pipeline.EmptyMessageCategory))
	})

	It("should detect retryable errors through the chain", func() {
		err := fmt.Errorf("write: %w", pipeline.NewRetryableErrProcessingError(errOneError, oneCategory, nil))

		Expect(pipeline.IsRetryable(err)).To(BeTrue())
		Expect(pipeline.IsRetryable(errOneError)).To(BeFalse())
		Expect(errors.Is(err, errOneError)).To(BeTrue())
	})
})
