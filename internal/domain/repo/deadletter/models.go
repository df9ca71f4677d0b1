package deadletter

import (
	"encoding/json"
	"time"
)

// Archive is the json object written in s3 for each dead letter.
type Archive struct {
	ProcessingContext ProcessingContext `json:"processingContext"`
	Source            *Source           `json:"source,omitempty"`
	Category          string            `json:"category"`
	Format            string            `json:"format"`
	// Record is base64 encoded by encoding/json
	Record   []byte          `json:"record"`
	Document json.RawMessage `json:"document,omitempty"`
}

type ProcessingContext struct {
	ID        string    `json:"id"`
	Component Component `json:"component"`
	Time      time.Time `json:"time"`
	Host      string    `json:"host"`
}

type Component struct {
	Branch   string `json:"branch"`
	Revision string `json:"revision"`
}

type Source struct {
	Topic     string    `json:"topic"`
	Partition int32     `json:"partition"`
	Offset    int64     `json:"offset"`
	Timestamp time.Time `json:"timestamp"`
}
