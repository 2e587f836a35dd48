package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/sozercan/ticket-dashboard/api/models"
	"github.com/sozercan/ticket-dashboard/apimodels"
	"github.com/sozercan/ticket-dashboard/internal/dashboard"
	"github.com/sozercan/ticket-dashboard/internal/session"
)

type kpiCards struct {
	TotalTickets  int
	AvgResolution string
	PeakCategory  string
}

type chartView struct {
	ID    string
	Title string
	Spec  template.JS
}

type pageData struct {
	Notice     *session.Notice
	Error      string
	Populated  bool
	FileName   string
	KPIs       kpiCards
	Charts     []chartView
	Summary    string
	Transcript []session.Exchange
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	s.render(w, http.StatusOK, st, "")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	slog.Info("Handling analyze request", "session_id", st.ID)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	up, err := readUpload(r)
	if err != nil {
		slog.Warn("Failed to read upload", "error", err)
		st.Flash = &session.Notice{Kind: session.NoticeWarning, Text: fmt.Sprintf("Upload could not be read: %v", err)}
		s.render(w, http.StatusBadRequest, st, "")
		return
	}

	err = s.controller.Analyze(r.Context(), st, up)
	switch {
	case err == nil:
		st.Flash = &session.Notice{Kind: session.NoticeSuccess, Text: "✅ Analysis completed successfully!"}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, dashboard.ErrNoFile):
		st.Flash = &session.Notice{Kind: session.NoticeWarning, Text: "Please choose a CSV or Excel file to analyze."}
		s.render(w, http.StatusBadRequest, st, "")
	case errors.Is(err, dashboard.ErrUnsupportedFormat):
		st.Flash = &session.Notice{Kind: session.NoticeWarning, Text: err.Error()}
		s.render(w, http.StatusBadRequest, st, "")
	default:
		s.render(w, http.StatusBadGateway, st, dashboard.ErrorText(err))
	}
}

// readUpload returns nil without error when the form carries no file.
func readUpload(r *http.Request) (*dashboard.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, hdr, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &dashboard.Upload{Name: hdr.Filename, Data: data}, nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		slog.Warn("Failed to parse chat form", "error", err)
		http.Error(w, "unable to parse form", http.StatusBadRequest)
		return
	}
	var form models.ChatForm
	if err := s.forms.Decode(&form, r.PostForm); err != nil {
		slog.Warn("Failed to decode chat form", "error", err)
		http.Error(w, "unable to parse form", http.StatusBadRequest)
		return
	}

	_, err := s.controller.Ask(r.Context(), st, form.Question)
	switch {
	case errors.Is(err, dashboard.ErrNotAnalyzed):
		st.Flash = &session.Notice{Kind: session.NoticeWarning, Text: "Upload and analyze a dataset before chatting."}
	case errors.Is(err, dashboard.ErrEmptyQuestion):
		st.Flash = &session.Notice{Kind: session.NoticeWarning, Text: "Please type a question first."}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	s.controller.ClearChat(st)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("Health check request failed", "error", err)
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sessionView(st)); err != nil {
		slog.Error("Failed to encode session view", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// render writes the dashboard page. errText, when set, is shown as a failed
// analysis.
func (s *Server) render(w http.ResponseWriter, status int, st *session.State, errText string) {
	data := pageData{
		Notice:     st.PopFlash(),
		Error:      errText,
		Transcript: st.Transcript,
	}

	if a := st.Analysis; a != nil {
		kpis := dashboard.ComputeKPIs(a)
		data.Populated = true
		data.FileName = a.FileName
		data.Summary = a.Summary
		data.KPIs = kpiCards{
			TotalTickets:  kpis.TotalTickets,
			AvgResolution: kpis.AvgResolutionDisplay(),
			PeakCategory:  kpis.PeakCategory,
		}
		for _, c := range dashboard.Charts(a) {
			data.Charts = append(data.Charts, chartView{
				ID:    c.ID,
				Title: c.Title,
				// Charts already compacted and HTML-escaped the spec.
				Spec: template.JS(c.Spec),
			})
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func sessionView(st *session.State) apimodels.SessionView {
	view := apimodels.SessionView{
		State:      string(st.Phase()),
		Transcript: make([]apimodels.ExchangeView, 0, len(st.Transcript)),
	}
	for _, ex := range st.Transcript {
		view.Transcript = append(view.Transcript, apimodels.ExchangeView{Question: ex.Question, Answer: ex.Answer})
	}

	a := st.Analysis
	if a == nil {
		return view
	}

	kpis := dashboard.ComputeKPIs(a)
	view.FileName = a.FileName
	view.Summary = a.Summary
	view.ServerKPIs = a.ServerKPIs
	view.Columns = &apimodels.ColumnRoles{
		Date:       a.Columns.Date,
		Category:   a.Columns.Category,
		Resolution: a.Columns.Resolution,
		TicketID:   a.Columns.TicketID,
	}
	view.KPIs = &apimodels.KPIView{
		TotalTickets:      kpis.TotalTickets,
		AvgResolutionTime: kpis.AvgResolutionDisplay(),
		PeakCategory:      kpis.PeakCategory,
	}
	for _, c := range dashboard.Charts(a) {
		view.Charts = append(view.Charts, c.ID)
	}
	return view
}
