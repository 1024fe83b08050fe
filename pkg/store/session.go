package store

// TranscriptEntry is one line of the conversation display.
type TranscriptEntry struct {
	Role   string `json:"role"` // "user" | "assistant" | "error"
	Text   string `json:"text"`
	Notice string `json:"notice,omitempty"` // "updated" | "auto-corrected" on script edits

	// Script carries diagnostic partial output on failed turns so the UI
	// can show it for inspection. It never becomes the session baseline.
	Script string `json:"script,omitempty"`
}

// Session is the single in-memory conversation state for one tab.
// Only a successful generation or execution advances CurrentScript;
// it is the baseline sent as previous_code on the next iterative turn.
type Session struct {
	ID                string            `json:"id"`
	CurrentScript     string            `json:"current_script"`
	CurrentArtifactID string            `json:"current_artifact_id"`
	Transcript        []TranscriptEntry `json:"transcript"`

	// Seq increments per turn; responses carrying a stale Seq are discarded
	// so a reset or newer turn is not overwritten by a slow in-flight call.
	Seq uint64 `json:"-"`
}

const DefaultSessionID = "default"

func NewSession(id string) *Session {
	return &Session{
		ID:         id,
		Transcript: []TranscriptEntry{},
	}
}

func (s *Session) HasScript() bool {
	return s.CurrentScript != ""
}

func (s *Session) Append(entry TranscriptEntry) {
	s.Transcript = append(s.Transcript, entry)
}
