package dashboard

import (
	"encoding/json"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/sozercan/ticket-dashboard/internal/session"
)

type chartKey struct {
	ID    string
	Title string
}

// knownCharts are rendered in this order when the backend returns them.
var knownCharts = []chartKey{
	{ID: "tickets_per_day", Title: "Tickets per day"},
	{ID: "tickets_by_category", Title: "Tickets by category"},
	{ID: "resolution_trend", Title: "Resolution time trend"},
}

// Chart is a Plotly figure ready to embed in a page.
type Chart struct {
	ID    string
	Title string
	// Spec is the compacted figure JSON with <, > and & escaped.
	Spec json.RawMessage
}

// Charts returns the known charts present in the analysis. A missing or
// malformed spec only drops that chart.
func Charts(a *session.Analysis) []Chart {
	if a == nil {
		return nil
	}

	var out []Chart
	for _, key := range knownCharts {
		raw, ok := a.Charts[key.ID]
		if !ok {
			continue
		}

		if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
			slog.Warn("Skipping malformed chart spec", "chart", key.ID)
			continue
		}
		spec, err := json.Marshal(json.RawMessage(raw))
		if err != nil {
			slog.Warn("Skipping malformed chart spec", "chart", key.ID, "error", err)
			continue
		}

		out = append(out, Chart{
			ID:    key.ID,
			Title: chartTitle(raw, key.Title),
			Spec:  spec,
		})
	}
	return out
}

// chartTitle reads the figure's own title, which Plotly allows either as a
// plain string or as an object with a text field.
func chartTitle(spec, fallback string) string {
	title := gjson.Get(spec, "layout.title")
	if title.IsObject() {
		title = title.Get("text")
	}
	if t := title.String(); t != "" {
		return t
	}
	return fallback
}
