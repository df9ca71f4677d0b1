package deadletter

// Description is the error context captured for a record that failed processing.
//
// Topic, Partition and Offset locate the failed record in its source topic. They are
// usually all present or all absent but are modelled independently.
type Description struct {
	Description string           `json:"description"`
	InputValue  Optional[string] `json:"inputValue"`
	Topic       Optional[string] `json:"topic"`
	Partition   Optional[int32]  `json:"partition"`
	Offset      Optional[int64]  `json:"offset"`
	Cause       Cause            `json:"cause"`
}

// Cause is the error metadata attached to a Description.
type Cause struct {
	Message    Optional[string] `json:"message"`
	StackTrace Optional[string] `json:"stackTrace"`
	ErrorClass Optional[string] `json:"errorClass"`
}
