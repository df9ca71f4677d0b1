package repo

import (
	"context"

	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -package=mock -destination=./mock/mock_repo.go

type EventWriter interface {
	WriteEvent(ctx context.Context, event entity.Event) error
}

type DeadLetterWriter interface {
	WriteDeadLetter(ctx context.Context, deadLetter entity.DeadLetter) error
}

// DeadLetterIndex remembers the sources already published on the error topic.
type DeadLetterIndex interface {
	IsPublished(ctx context.Context, source entity.Source) (bool, error)
	MarkPublished(ctx context.Context, source entity.Source) error
}
