package processing

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Event timestamps carry exactly milliseconds, or no fraction at all.
const (
	dateLayoutMillis  = "2006-01-02T15:04:05.000Z"
	dateLayoutSeconds = "2006-01-02T15:04:05Z"
)

var (
	ErrMissingKey    = errors.New("missing key")
	ErrNotAString    = errors.New("value is not a string")
	ErrEmptyValue    = errors.New("empty value")
	ErrInvalidLayout = errors.New("unexpected date layout")
)

// ExtractString returns the non empty string stored at key.
func ExtractString(payload map[string]interface{}, key string) (string, error) {
	value, present := payload[key]
	if !present {
		return "", fmt.Errorf("%w %q", ErrMissingKey, key)
	}

	ret, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrNotAString, key, value)
	}

	if ret == "" {
		return "", fmt.Errorf("%w for %q", ErrEmptyValue, key)
	}

	return ret, nil
}

// ValidateDate parses an event timestamp. time.Parse accepts any fraction after the
// seconds of a layout without one, so the layout is chosen from the input.
func ValidateDate(date string) (time.Time, error) {
	layout := dateLayoutSeconds
	if strings.Contains(date, ".") {
		layout = dateLayoutMillis
	}

	ret, err := time.Parse(layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidLayout, date, err)
	}

	return ret, nil
}

func FormatDate(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

// CopyPayload is a shallow copy: nested values are shared.
func CopyPayload(payload map[string]interface{}) map[string]interface{} {
	ret := maps.Clone(payload)
	if ret == nil {
		ret = map[string]interface{}{}
	}

	return ret
}
