package pipeline_test

import (
	"context"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline/mock"
)

// fakeConsumerGroup runs one session per Consume call with the configured messages.
type fakeConsumerGroup struct {
	sessions [][]*sarama.ConsumerMessage
	err      error
	cancel   context.CancelFunc
	// block keeps the last session open until the context is done
	block bool

	errors  chan error
	session *fakeSession
}

func newFakeConsumerGroup(sessions ...[]*sarama.ConsumerMessage) *fakeConsumerGroup {
	return &fakeConsumerGroup{
		sessions: sessions,
		errors:   make(chan error),
	}
}

func (f *fakeConsumerGroup) Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error {
	if len(f.sessions) == 0 {
		if f.err != nil {
			return f.err
		}

		if f.block {
			<-ctx.Done()

			return nil
		}

		f.cancel()

		return nil
	}

	msgs := f.sessions[0]
	f.sessions = f.sessions[1:]

	if f.session == nil {
		f.session = &fakeSession{}
	}

	f.session.ctx = ctx

	err := handler.Setup(f.session)
	if err != nil {
		return err
	}

	err = handler.ConsumeClaim(f.session, newClaim(msgs...))
	if err != nil {
		return err
	}

	return handler.Cleanup(f.session)
}

// lineRecorder keeps every formatted log line.
type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineRecorder) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		l.mu.Lock()
		defer l.mu.Unlock()

		l.lines = append(l.lines, args)
	}, funcr.Options{})
}

func (l *lineRecorder) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.lines...)
}

func (f *fakeConsumerGroup) Errors() <-chan error      { return f.errors }
func (f *fakeConsumerGroup) Close() error              { close(f.errors); return nil }
func (f *fakeConsumerGroup) Pause(map[string][]int32)  {}
func (f *fakeConsumerGroup) Resume(map[string][]int32) {}
func (f *fakeConsumerGroup) PauseAll()                 {}
func (f *fakeConsumerGroup) ResumeAll()                {}

var _ = Describe("Testing Runner", func() {
	var proc *mock.MockProcessing[Event]
	var errProc *mock.MockErrorProcessing

	BeforeEach(func() {
		ctrl := gomock.NewController(GinkgoT())

		proc = mock.NewMockProcessing[Event](ctrl)
		errProc = mock.NewMockErrorProcessing(ctrl)
	})

	It("should consume sessions until the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		first := &sarama.ConsumerMessage{Topic: "events", Offset: 0, Value: []byte(`{"name": "first"}`)}
		second := &sarama.ConsumerMessage{Topic: "events", Offset: 1, Value: []byte(`{"name": "second"}`)}

		consumer := newFakeConsumerGroup([]*sarama.ConsumerMessage{first}, []*sarama.ConsumerMessage{second})
		consumer.cancel = cancel

		defer consumer.Close()

		proc.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		err := pipeline.NewRunner[Event](consumer, []string{"events"}, proc, errProc).WithLogger(GinkgoLogr).Start(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(consumer.session.marked).To(ConsistOf(first, second))
	})

	It("should stop cleanly when the consumer group is closed", func(ctx SpecContext) {
		consumer := newFakeConsumerGroup()
		consumer.err = sarama.ErrClosedConsumerGroup

		defer consumer.Close()

		err := pipeline.NewRunner[Event](consumer, []string{"events"}, proc, errProc).Start(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should fail when the consumer group fails", func(ctx SpecContext) {
		errConsumer := errors.New("no broker")

		consumer := newFakeConsumerGroup()
		consumer.err = errConsumer

		defer consumer.Close()

		err := pipeline.NewRunner[Event](consumer, []string{"events"}, proc, errProc).Start(ctx)
		Expect(err).To(MatchError(errConsumer))
	})

	It("should log consumer errors while a session is running", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		consumer := newFakeConsumerGroup()
		consumer.block = true

		defer consumer.Close()

		recorder := &lineRecorder{}
		done := make(chan error, 1)

		go func() {
			done <- pipeline.NewRunner[Event](consumer, []string{"events"}, proc, errProc).WithLogger(recorder.logger()).Start(ctx)
		}()

		consumer.errors <- &sarama.ConsumerError{Topic: "events", Partition: 1, Err: sarama.ErrOffsetOutOfRange}
		consumer.errors <- errors.New("coordinator moved")

		Eventually(recorder.Lines).Should(ContainElements(
			And(ContainSubstring(`"topic"="events"`), ContainSubstring(`"partition"=1`)),
			ContainSubstring("coordinator moved"),
		))

		cancel()

		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})
