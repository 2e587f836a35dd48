package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/ticket-dashboard/internal/dataset"
	"github.com/sozercan/ticket-dashboard/internal/session"
)

func ptr(s string) *string { return &s }

func analysisFromCSV(t *testing.T, csv string, roles session.ColumnRoles) *session.Analysis {
	t.Helper()
	frame, err := dataset.ParseCSV([]byte(csv))
	require.NoError(t, err)
	return &session.Analysis{Frame: frame, Columns: roles}
}

func TestComputeKPIsAverageSkipsNonNumeric(t *testing.T) {
	a := analysisFromCSV(t, "id,resolution_hours\n1,2\n2,4\n3,bad\n4,6\n", session.ColumnRoles{
		Resolution: ptr("resolution_hours"),
	})

	kpis := ComputeKPIs(a)

	assert.Equal(t, 4, kpis.TotalTickets)
	require.NotNil(t, kpis.AvgResolution)
	assert.Equal(t, 4.0, *kpis.AvgResolution)
	assert.Equal(t, "4.0", kpis.AvgResolutionDisplay())
}

func TestComputeKPIsAverageRounding(t *testing.T) {
	a := analysisFromCSV(t, "r\n1\n2\n2\n", session.ColumnRoles{Resolution: ptr("r")})

	kpis := ComputeKPIs(a)

	assert.Equal(t, "1.67", kpis.AvgResolutionDisplay())
}

func TestComputeKPIsNoResolutionColumn(t *testing.T) {
	a := analysisFromCSV(t, "id,resolution_hours\n1,2\n2,4\n", session.ColumnRoles{})

	kpis := ComputeKPIs(a)

	assert.Nil(t, kpis.AvgResolution)
	assert.Equal(t, NotApplicable, kpis.AvgResolutionDisplay())
}

func TestComputeKPIsResolutionAllNonNumeric(t *testing.T) {
	a := analysisFromCSV(t, "r\nx\n\n", session.ColumnRoles{Resolution: ptr("r")})

	assert.Equal(t, NotApplicable, ComputeKPIs(a).AvgResolutionDisplay())
}

func TestComputeKPIsPeakCategory(t *testing.T) {
	a := analysisFromCSV(t, "category\nnetwork\nbilling\nbilling\nnetwork\nlogin\nbilling\n", session.ColumnRoles{
		Category: ptr("category"),
	})

	assert.Equal(t, "billing", ComputeKPIs(a).PeakCategory)
}

func TestComputeKPIsPeakCategoryTieGoesToFirstSeen(t *testing.T) {
	a := analysisFromCSV(t, "category\nnetwork\nbilling\nbilling\nnetwork\n", session.ColumnRoles{
		Category: ptr("category"),
	})

	assert.Equal(t, "network", ComputeKPIs(a).PeakCategory)
}

func TestComputeKPIsPeakCategoryFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		csv   string
		roles session.ColumnRoles
	}{
		{"no category column", "category\nbilling\n", session.ColumnRoles{}},
		{"empty category column", "id,category\n1,\n2,NA\n", session.ColumnRoles{Category: ptr("category")}},
		{"header only", "category\n", session.ColumnRoles{Category: ptr("category")}},
		{"column missing from frame", "id\n1\n", session.ColumnRoles{Category: ptr("category")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analysisFromCSV(t, tt.csv, tt.roles)
			assert.NotPanics(t, func() {
				assert.Equal(t, NotApplicable, ComputeKPIs(a).PeakCategory)
			})
		})
	}
}

func TestComputeKPIsNilAnalysis(t *testing.T) {
	kpis := ComputeKPIs(nil)

	assert.Equal(t, 0, kpis.TotalTickets)
	assert.Equal(t, NotApplicable, kpis.PeakCategory)
	assert.Equal(t, NotApplicable, kpis.AvgResolutionDisplay())
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "4.0", formatMetric(4))
	assert.Equal(t, "3.33", formatMetric(3.33))
	assert.Equal(t, "0.5", formatMetric(0.5))
	assert.Equal(t, "-2.0", formatMetric(-2))
}
