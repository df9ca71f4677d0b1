package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline/mock"
)

var _ = Describe("Testing RetryProcessing", func() {
	var proc *mock.MockProcessing[Data]
	var retry pipeline.Processing[Data]
	var attempts []uint

	BeforeEach(func() {
		proc = mock.NewMockProcessing[Data](gomock.NewController(GinkgoT()))
		attempts = nil

		retry = pipeline.NewRetryProcessing[Data](proc, pipeline.RetryConfig{
			MaxAttempt: 3,
			Delay:      10 * time.Millisecond,
			OnRetry: func(attempt uint, _ error) {
				attempts = append(attempts, attempt)
			},
		})
	})

	When("the inner processing never fails", func() {
		It("should succeed without retrying", func(ctx SpecContext) {
			proc.EXPECT().Process(gomock.Any(), data).Return(nil).Times(1)

			Expect(retry.Process(ctx, data)).To(Succeed())
			Expect(attempts).To(BeEmpty())
		})
	})

	DescribeTable("the inner processing only fails the first time",
		func(ctx SpecContext, err error) {
			gomock.InOrder(
				proc.EXPECT().Process(gomock.Any(), data).Return(err).Times(1),
				proc.EXPECT().Process(gomock.Any(), data).Return(nil).Times(1),
			)

			Expect(retry.Process(ctx, data)).To(Succeed())
			Expect(attempts).To(Equal([]uint{0}))
		},
		Entry("with a retryable error", errRetryable),
		Entry("with a wrapped retryable error", fmt.Errorf("wrapping: %w", errRetryable)),
	)

	When("the inner processing continuously fails", func() {
		It("should fail immediately with a generic error", func(ctx SpecContext) {
			proc.EXPECT().Process(gomock.Any(), data).Return(errOneError).Times(1)

			Expect(retry.Process(ctx, data)).To(MatchError(errOneError))
		})

		It("should return the retryable error after the last attempt", func(ctx SpecContext) {
			proc.EXPECT().Process(gomock.Any(), data).Return(errRetryable).Times(3)

			err := retry.Process(ctx, data)
			Expect(err).To(MatchError(pipeline.ErrRetryableError), "error is retryable")

			processingError := pipeline.ErrProcessingError{}
			Expect(errors.As(err, &processingError)).To(BeTrue(), "error is a ErrProcessingError")
			Expect(processingError.Category).To(Equal(oneCategory), "category is preserved")

			Expect(attempts).To(Equal([]uint{0, 1, 2}))
		})
	})

	When("the context is cancelled", func() {
		It("should stop retrying", func() {
			ctx, cancel := context.WithCancel(context.Background())

			infinite := pipeline.NewRetryProcessing[Data](proc, pipeline.RetryConfig{
				Delay:    time.Millisecond,
				MaxDelay: 5 * time.Millisecond,
			})

			proc.EXPECT().Process(gomock.Any(), data).DoAndReturn(func(context.Context, Data) error {
				cancel()

				return errRetryable
			}).MinTimes(1)

			Expect(infinite.Process(ctx, data)).To(HaveOccurred())
		})
	})
})
