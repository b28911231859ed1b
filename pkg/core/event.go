package core

// EventType represents the type of change observed in the store tree.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a document in the store tree, identified by
// its root-relative slash path.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
