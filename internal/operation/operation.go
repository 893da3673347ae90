package operation

// Operation is a read-only projection of a remote long-running operation.
// It is fetched on each poll and never mutated by the client. Once Done is
// true the remote record is immutable.
type Operation struct {
	Name     string    `json:"name"`
	Done     bool      `json:"done"`
	Error    *Status   `json:"error,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata carries the per-stage progress the server attaches to an
// operation. Stages may be empty until the server populates them, which is
// distinct from an operation that legitimately has zero stages: callers keep
// polling until the list is non-empty.
type Metadata struct {
	Stages []StageInfo `json:"stages,omitempty"`
}

// StageInfo is the server-reported status of a single stage on one poll.
type StageInfo struct {
	Name          string         `json:"name"`
	State         StageState     `json:"state"`
	Message       string         `json:"message,omitempty"`
	ResourceURI   string         `json:"resourceUri,omitempty"`
	StateMessages []StateMessage `json:"stateMessages,omitempty"`
}

// StageState is the remote lifecycle of a stage. The wire tokens follow the
// operation API's enum names.
type StageState string

const (
	StateUnspecified StageState = "STATE_UNSPECIFIED"
	StateNotStarted  StageState = "NOT_STARTED"
	StateInProgress  StageState = "IN_PROGRESS"
	StateComplete    StageState = "COMPLETE"
)

// StateMessage is a warning or error the server attached to a stage.
type StateMessage struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// StateMessagesStrings formats stage warnings for display, one
// "[SEVERITY] message" string per entry.
func StateMessagesStrings(messages []StateMessage) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, "["+m.Severity+"] "+m.Message)
	}
	return out
}

// Stages returns the operation's stage list, or nil if the metadata has not
// been populated yet.
func (o *Operation) Stages() []StageInfo {
	if o == nil || o.Metadata == nil {
		return nil
	}
	return o.Metadata.Stages
}
