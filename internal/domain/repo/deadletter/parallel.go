package deadletter

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo"
)

// ParallelWriter publishes a dead letter to every destination concurrently.
// Destinations do not cancel each other: a failing archive never interrupts the
// publication on the error topic. All errors are joined.
type ParallelWriter struct {
	writers []repo.DeadLetterWriter
}

func NewParallelWriter(writers ...repo.DeadLetterWriter) ParallelWriter {
	return ParallelWriter{
		writers: writers,
	}
}

func (p ParallelWriter) WriteDeadLetter(ctx context.Context, deadLetter entity.DeadLetter) error {
	var group errgroup.Group

	errs := make([]error, len(p.writers))

	for i, writer := range p.writers {
		group.Go(func() error {
			errs[i] = writer.WriteDeadLetter(ctx, deadLetter)

			return nil
		})
	}

	_ = group.Wait()

	return errors.Join(errs...)
}
