package entity

import (
	"fmt"
	"time"
)

type Event struct {
	Name     string                 `json:"name"`
	Payload  map[string]interface{} `json:"payload"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Source locates the kafka message a dead letter was built from.
type Source struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

func (s Source) String() string {
	return fmt.Sprintf("%s-%d-%d", s.Topic, s.Partition, s.Offset)
}

type DeadLetter struct {
	Format   string
	Category string
	// Source is nil when the failure is not attached to a consumed message
	Source *Source
	// Record is the binary record, framed for the schema registry when configured
	Record []byte
	// Document is the json rendering of the record
	Document []byte
}

// Key is the kafka key of the dead letter, empty when the source is unknown.
func (d DeadLetter) Key() string {
	if d.Source == nil {
		return ""
	}

	return d.Source.String()
}
