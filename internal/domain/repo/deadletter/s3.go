package deadletter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/common/version"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/log"
)

const (
	unknownHostname = "<unknown>"
	unknownTopic    = "unknown"

	keyTemplate = "<prefix>/<year>/<month>/<day>/<topic>/<name>.<format>.json"

	categoryArchiveInternalError = "archive_internal_error"
	categoryArchiveS3            = "archive_s3"
)

// PutObjectAPI is the part of the s3 client used by the archive.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer archives dead letters in a bucket.
type S3Writer struct {
	s3client PutObjectAPI
	clock    clockwork.Clock

	bucket string
	prefix string

	hostname string
	newID    func() string
}

func NewS3Writer(s3client PutObjectAPI, clock clockwork.Clock, bucket string, prefix string) S3Writer {
	hostname, err := os.Hostname()
	if err != nil {
		log.Logger().Error(err, "failed to get hostname, falling backing to "+unknownHostname)

		hostname = unknownHostname
	}

	return S3Writer{
		s3client: s3client,
		clock:    clock,
		bucket:   bucket,
		prefix:   prefix,
		hostname: hostname,
		newID:    uuid.NewString,
	}
}

func (r S3Writer) WriteDeadLetter(ctx context.Context, deadLetter entity.DeadLetter) error {
	id := r.newID()

	obj := r.createArchive(deadLetter, id)

	b, err := json.Marshal(obj)
	if err != nil {
		return common.NewErrProcessingError(err, categoryArchiveInternalError, nil, "failed to marshal archive")
	}

	key := r.computeObjectKey(deadLetter, id)

	params := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"host":     r.hostname,
			"revision": version.Revision,
		},
	}

	_, err = r.s3client.PutObject(ctx, params)
	if err != nil {
		switch {
		case isRetryable(err):
			return common.NewRetryableErrProcessingError(err, categoryArchiveS3, nil, "failed to write %s in s3", key)
		default:
			return common.NewErrProcessingError(err, categoryArchiveS3, nil, "failed to write %s in s3", key)
		}
	}

	return nil
}

func (r S3Writer) createArchive(deadLetter entity.DeadLetter, id string) Archive {
	ret := Archive{
		ProcessingContext: ProcessingContext{
			ID: id,
			Component: Component{
				Branch:   version.Branch,
				Revision: version.Revision,
			},
			Time: r.clock.Now(),
			Host: r.hostname,
		},
		Category: deadLetter.Category,
		Format:   deadLetter.Format,
		Record:   deadLetter.Record,
	}

	if json.Valid(deadLetter.Document) {
		ret.Document = deadLetter.Document
	}

	if deadLetter.Source != nil {
		ret.Source = &Source{
			Topic:     deadLetter.Source.Topic,
			Partition: deadLetter.Source.Partition,
			Offset:    deadLetter.Source.Offset,
			Timestamp: deadLetter.Source.Timestamp,
		}
	}

	return ret
}

// computeObjectKey is stable for a given source record, so that a retried write
// overwrites the same object. Without source, the clock and the archive id are used.
func (r S3Writer) computeObjectKey(deadLetter entity.DeadLetter, id string) string {
	now := r.clock.Now().UTC()

	ts := now
	topic := unknownTopic
	name := fmt.Sprintf("%d-%s", now.UnixNano(), id)

	if deadLetter.Source != nil {
		if !deadLetter.Source.Timestamp.IsZero() {
			ts = deadLetter.Source.Timestamp.UTC()
		}

		topic = deadLetter.Source.Topic
		name = fmt.Sprintf("%d-%d", deadLetter.Source.Partition, deadLetter.Source.Offset)
	}

	template := strings.NewReplacer(
		"<prefix>", r.prefix,
		"<year>", fmt.Sprintf("%04d", ts.Year()),
		"<month>", fmt.Sprintf("%02d", ts.Month()),
		"<day>", fmt.Sprintf("%02d", ts.Day()),
		"<topic>", topic,
		"<name>", name,
		"<format>", deadLetter.Format,
	)

	return template.Replace(keyTemplate)
}

func isRetryable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var respErr *smithyhttp.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}

	status := respErr.HTTPStatusCode()

	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
