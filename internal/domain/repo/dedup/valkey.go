package dedup

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/valkey-io/valkey-go"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
)

const (
	categoryValkeyClientError = "valkey_client"

	keyPrefix = "deadletter"
)

// ValkeyIndex stores a key per published source, expiring after ttl.
// The value is the publication time.
type ValkeyIndex struct {
	client valkey.Client
	clock  clockwork.Clock
	ttl    time.Duration
}

func NewValkeyIndex(client valkey.Client, clock clockwork.Clock, ttl time.Duration) ValkeyIndex {
	return ValkeyIndex{
		client: client,
		clock:  clock,
		ttl:    ttl,
	}
}

func (r ValkeyIndex) IsPublished(ctx context.Context, source entity.Source) (bool, error) {
	command := r.client.B().Exists().Key(computeKey(source)).Build()

	count, err := r.client.Do(ctx, command).AsInt64()
	if err != nil {
		switch {
		case r.isRetryable(err):
			return false, common.NewRetryableErrProcessingError(err, categoryValkeyClientError, nil, "failed to check %s", source)
		default:
			return false, common.NewErrProcessingError(err, categoryValkeyClientError, nil, "failed to check %s", source)
		}
	}

	return count > 0, nil
}

func (r ValkeyIndex) MarkPublished(ctx context.Context, source entity.Source) error {
	command := r.client.B().Set().Key(computeKey(source)).Value(r.now()).Ex(r.ttl).Build()

	err := r.client.Do(ctx, command).Error()
	if err != nil {
		switch {
		case r.isRetryable(err):
			return common.NewRetryableErrProcessingError(err, categoryValkeyClientError, nil, "failed to mark %s", source)
		default:
			return common.NewErrProcessingError(err, categoryValkeyClientError, nil, "failed to mark %s", source)
		}
	}

	return nil
}

func (r ValkeyIndex) now() string {
	return r.clock.Now().UTC().Format(time.RFC3339)
}

func (r ValkeyIndex) isRetryable(err error) bool {
	// Network error
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// Valkey specific error
	vErr, isValkeyError := valkey.IsValkeyErr(err)
	if !isValkeyError {
		return false
	}

	return vErr.IsTryAgain()
}

func computeKey(source entity.Source) string {
	return fmt.Sprintf("%s:%s:%d:%d", keyPrefix, source.Topic, source.Partition, source.Offset)
}
