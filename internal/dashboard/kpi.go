package dashboard

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sozercan/ticket-dashboard/internal/dataset"
	"github.com/sozercan/ticket-dashboard/internal/session"
)

// NotApplicable is shown for a metric that cannot be computed.
const NotApplicable = "N/A"

// KPIs are the headline metrics computed locally from the uploaded frame.
type KPIs struct {
	TotalTickets int
	// AvgResolution is nil when no resolution column is known or it has no
	// numeric values.
	AvgResolution *float64
	PeakCategory  string
}

func (k KPIs) AvgResolutionDisplay() string {
	if k.AvgResolution == nil {
		return NotApplicable
	}
	return formatMetric(*k.AvgResolution)
}

func ComputeKPIs(a *session.Analysis) KPIs {
	if a == nil {
		return KPIs{PeakCategory: NotApplicable}
	}

	kpis := KPIs{
		TotalTickets: a.Frame.Len(),
		PeakCategory: NotApplicable,
	}

	if a.Columns.Resolution != nil {
		if values, ok := a.Frame.Column(*a.Columns.Resolution); ok {
			if mean, ok := averageResolution(values); ok {
				kpis.AvgResolution = &mean
			}
		} else {
			slog.Warn("Resolution column not found in dataset", "column", *a.Columns.Resolution)
		}
	}

	if a.Columns.Category != nil {
		if values, ok := a.Frame.Column(*a.Columns.Category); ok {
			if top, ok := peakCategory(values); ok {
				kpis.PeakCategory = top
			}
		} else {
			slog.Warn("Category column not found in dataset", "column", *a.Columns.Category)
		}
	}

	return kpis
}

// averageResolution is the mean of the numeric values, rounded to two
// decimals. Values that do not parse as numbers are ignored.
func averageResolution(values []string) (float64, bool) {
	var sum float64
	n := 0
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.RoundToEven(sum/float64(n)*100) / 100, true
}

// peakCategory returns the most frequent non-missing value. Ties go to the
// value that appears first.
func peakCategory(values []string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount > 0
}

// formatMetric prints whole numbers with one decimal ("4.0") and everything
// else with as many digits as needed.
func formatMetric(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
