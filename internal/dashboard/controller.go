package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/sozercan/ticket-dashboard/apimodels"
	"github.com/sozercan/ticket-dashboard/internal/backend"
	"github.com/sozercan/ticket-dashboard/internal/dataset"
	"github.com/sozercan/ticket-dashboard/internal/session"
)

// ChatErrorPrefix starts every answer synthesized from a failed chat call.
const ChatErrorPrefix = "⚠️ Chat error: "

var (
	ErrNoFile            = errors.New("no file uploaded")
	ErrUnsupportedFormat = dataset.ErrUnsupportedFormat
	ErrNotAnalyzed       = errors.New("no dataset has been analyzed yet")
	ErrEmptyQuestion     = errors.New("question is empty")
)

// Backend is the remote analysis and chat service.
type Backend interface {
	Analyze(ctx context.Context, fileName string, data []byte) (*apimodels.AnalyzeResponse, error)
	Chat(ctx context.Context, req apimodels.ChatRequest) (*apimodels.ChatResponse, error)
}

// Upload is one file picked in the upload form.
type Upload struct {
	Name string
	Data []byte
}

// Controller drives the upload -> analyze -> render -> chat cycle for a
// session. Every method expects the caller to hold the session's lock.
type Controller struct {
	backend Backend
}

func New(backend Backend) *Controller {
	return &Controller{
		backend: backend,
	}
}

// Analyze sends the upload to the backend and, only if the backend accepts it
// and the file also loads locally, replaces the session's analysis in one
// step. On any error the session is left as it was.
func (c *Controller) Analyze(ctx context.Context, st *session.State, up *Upload) error {
	if up == nil || up.Name == "" {
		return ErrNoFile
	}
	if _, err := dataset.DetectFormat(up.Name); err != nil {
		return err
	}

	slog.Info("Starting analysis", "session_id", st.ID, "file", up.Name)
	startTime := time.Now()

	resp, err := c.backend.Analyze(ctx, up.Name, up.Data)
	if err != nil {
		slog.Error("Analysis failed", "session_id", st.ID, "error", err)
		return err
	}

	frame, err := dataset.Parse(up.Name, up.Data)
	if err != nil {
		slog.Error("Failed to load dataset locally", "session_id", st.ID, "error", err)
		return fmt.Errorf("failed to load dataset locally: %w", err)
	}

	st.SetAnalysis(&session.Analysis{
		FileName: up.Name,
		Frame:    frame,
		Columns: session.ColumnRoles{
			Date:       resp.DateCol,
			Category:   resp.CatCol,
			Resolution: resp.ResCol,
			TicketID:   resp.TicketCol,
		},
		Summary:    resp.Summary,
		ServerKPIs: resp.KPIs,
		Charts:     maps.Clone(resp.Figs),
		SampleCSV:  resp.DatasetSampleCSV,
	})

	slog.Info("Analysis completed", "session_id", st.ID, "rows", frame.Len(), "charts", len(resp.Figs), "duration", time.Since(startTime))
	return nil
}

// Ask forwards a question with the stored dataset sample and appends exactly
// one exchange to the transcript. Backend failures become the answer text.
func (c *Controller) Ask(ctx context.Context, st *session.State, question string) (session.Exchange, error) {
	if st.Analysis == nil {
		return session.Exchange{}, ErrNotAnalyzed
	}
	if strings.TrimSpace(question) == "" {
		return session.Exchange{}, ErrEmptyQuestion
	}

	slog.Info("Handling chat question", "session_id", st.ID, "transcript_len", len(st.Transcript))

	var answer string
	resp, err := c.backend.Chat(ctx, apimodels.ChatRequest{
		Question:         question,
		DatasetSampleCSV: st.Analysis.SampleCSV,
	})
	if err != nil {
		slog.Warn("Chat failed, answering with error", "session_id", st.ID, "error", err)
		answer = ChatErrorPrefix + ErrorText(err)
	} else {
		answer = resp.Answer
	}

	st.AppendExchange(question, answer)
	return st.Transcript[len(st.Transcript)-1], nil
}

// ClearChat empties the transcript. Analysis state is not touched.
func (c *Controller) ClearChat(st *session.State) {
	slog.Info("Clearing chat transcript", "session_id", st.ID, "transcript_len", len(st.Transcript))
	st.ClearTranscript()
}

// ErrorText is what the user sees for a failed interaction: the raw response
// body for backend rejections, the error message otherwise.
func ErrorText(err error) string {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Body
	}
	return err.Error()
}
