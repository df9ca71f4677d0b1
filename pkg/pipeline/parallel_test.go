package pipeline_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline/mock"
)

var _ = Describe("Testing ParallelProcessing with 2 Processing", func() {
	var ctrl *gomock.Controller

	var parallel pipeline.Processing[Data]
	var proc1, proc2 *mock.MockProcessing[Data]

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())

		proc1 = mock.NewMockProcessing[Data](ctrl)
		proc2 = mock.NewMockProcessing[Data](ctrl)

		parallel = pipeline.NewParallelProcessing(proc1, proc2)
	})

	When("both processing return nil", func() {
		BeforeEach(func() {
			proc1.EXPECT().Process(gomock.Any(), data).Return(nil).Times(1)
			proc2.EXPECT().Process(gomock.Any(), data).Return(nil).Times(1)
		})

		It("should succeed", func(ctx SpecContext) {
			Expect(parallel.Process(ctx, data)).To(Succeed())
		})
	})

	DescribeTable("only one processing fails",
		func(ctx SpecContext, firstFails bool, returned error, expectRetryable bool) {
			first, second := error(nil), returned
			if firstFails {
				first, second = returned, nil
			}

			proc1.EXPECT().Process(gomock.Any(), data).Return(first).Times(1)
			proc2.EXPECT().Process(gomock.Any(), data).Return(second).Times(1)

			err := parallel.Process(ctx, data)
			Expect(err).To(MatchError(returned), "error is the original error")

			if !expectRetryable {
				Expect(errors.Is(err, pipeline.ErrRetryableError)).To(BeFalse())

				return
			}

			Expect(err).To(MatchError(pipeline.ErrRetryableError), "error is retryable")

			processingError := pipeline.ErrProcessingError{}
			Expect(errors.As(err, &processingError)).To(BeTrue(), "error is a ErrProcessingError")
			Expect(processingError.Category).To(Equal(oneCategory), "category is preserved")
		},
		Entry("first with a retryable error", true, errRetryable, true),
		Entry("first with a generic error", true, errOneError, false),
		Entry("second with a retryable error", false, errRetryable, true),
		Entry("second with a generic error", false, errOneError, false),
	)

	When("both processing return an error", func() {
		err1 := errors.New("error 1")
		err2 := errors.New("error 2")

		BeforeEach(func() {
			proc1.EXPECT().Process(gomock.Any(), data).Return(err1).MaxTimes(1)
			proc2.EXPECT().Process(gomock.Any(), data).Return(err2).MaxTimes(1)
		})

		It("should return one of the 2 errors", func(ctx SpecContext) {
			err := parallel.Process(ctx, data)
			Expect(err).Should(Or(MatchError(err1), MatchError(err2)))
		})
	})
})
