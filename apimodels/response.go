package apimodels

import "encoding/json"

// AnalyzeResponse is the body returned by the backend's POST /analyze.
type AnalyzeResponse struct {
	// Detected column roles, null when the backend could not find one
	DateCol   *string `json:"date_col"`
	CatCol    *string `json:"cat_col"`
	ResCol    *string `json:"res_col"`
	TicketCol *string `json:"ticket_col"`

	// AI-generated narrative summary
	Summary string `json:"summary"`

	// Server-side KPIs, kept as received
	KPIs json.RawMessage `json:"kpis,omitempty"`

	// Small CSV excerpt sent back with every chat question
	DatasetSampleCSV string `json:"dataset_sample_csv"`

	// Chart id to serialized Plotly figure
	Figs map[string]string `json:"figs"`
}

type ChatRequest struct {
	Question         string `json:"question"`
	DatasetSampleCSV string `json:"dataset_sample_csv"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// SessionView is the JSON projection of one dashboard session.
type SessionView struct {
	State      string          `json:"state"`
	FileName   string          `json:"fileName,omitempty"`
	Columns    *ColumnRoles    `json:"columns,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	KPIs       *KPIView        `json:"kpis,omitempty"`
	ServerKPIs json.RawMessage `json:"serverKpis,omitempty"`
	Charts     []string        `json:"charts,omitempty"`
	Transcript []ExchangeView  `json:"transcript"`
}

type ColumnRoles struct {
	Date       *string `json:"date"`
	Category   *string `json:"category"`
	Resolution *string `json:"resolution"`
	TicketID   *string `json:"ticketId"`
}

type KPIView struct {
	TotalTickets      int    `json:"totalTickets"`
	AvgResolutionTime string `json:"avgResolutionTime"`
	PeakCategory      string `json:"peakCategory"`
}

type ExchangeView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
