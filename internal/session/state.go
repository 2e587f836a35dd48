package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sozercan/ticket-dashboard/internal/dataset"
)

// Phase names where a session is in the upload -> analyze -> chat cycle.
type Phase string

const (
	PhaseEmpty     Phase = "empty"
	PhasePopulated Phase = "populated"
)

// ColumnRoles are the column names the backend detected in the upload.
// A nil field means no such column was found.
type ColumnRoles struct {
	Date       *string
	Category   *string
	Resolution *string
	TicketID   *string
}

// Analysis is everything produced by one successful analyze call. It is
// built completely before being attached to a State and never mutated after.
type Analysis struct {
	FileName   string
	Frame      *dataset.Frame
	Columns    ColumnRoles
	Summary    string
	ServerKPIs json.RawMessage
	Charts     map[string]string
	SampleCSV  string
}

type Exchange struct {
	Question string
	Answer   string
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	Kind NoticeKind
	Text string
}

// State is the private, per-session dashboard state. Callers hold the lock
// for the whole interaction so one session is handled strictly serially.
type State struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	Analysis   *Analysis
	Transcript []Exchange
	Flash      *Notice
}

func New() *State {
	return &State{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

func (s *State) Phase() Phase {
	if s.Analysis == nil {
		return PhaseEmpty
	}
	return PhasePopulated
}

// SetAnalysis replaces all analysis-derived state in one step.
func (s *State) SetAnalysis(a *Analysis) {
	s.Analysis = a
}

func (s *State) AppendExchange(question, answer string) {
	s.Transcript = append(s.Transcript, Exchange{Question: question, Answer: answer})
}

func (s *State) ClearTranscript() {
	s.Transcript = nil
}

// PopFlash returns the pending notice, if any, and clears it.
func (s *State) PopFlash() *Notice {
	n := s.Flash
	s.Flash = nil
	return n
}
