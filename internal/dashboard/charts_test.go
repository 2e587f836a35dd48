package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/ticket-dashboard/internal/session"
)

func TestChartsKnownKeysInOrder(t *testing.T) {
	a := &session.Analysis{Charts: map[string]string{
		"resolution_trend":    `{"data":[],"layout":{"title":{"text":"Mean resolution"}}}`,
		"tickets_per_day":     `{"data":[{"type":"scatter","x":[1,2],"y":[3,4]}],"layout":{"title":"Daily"}}`,
		"tickets_by_category": `{"data":[],"layout":{}}`,
		"unknown_chart":       `{"data":[]}`,
	}}

	charts := Charts(a)

	require.Len(t, charts, 3)
	assert.Equal(t, "tickets_per_day", charts[0].ID)
	assert.Equal(t, "Daily", charts[0].Title)
	assert.Equal(t, "tickets_by_category", charts[1].ID)
	assert.Equal(t, "Tickets by category", charts[1].Title)
	assert.Equal(t, "resolution_trend", charts[2].ID)
	assert.Equal(t, "Mean resolution", charts[2].Title)
	assert.JSONEq(t, `{"data":[{"type":"scatter","x":[1,2],"y":[3,4]}],"layout":{"title":"Daily"}}`, string(charts[0].Spec))
}

func TestChartsMissingKeysAreOmitted(t *testing.T) {
	a := &session.Analysis{Charts: map[string]string{
		"tickets_by_category": `{"data":[]}`,
	}}

	charts := Charts(a)

	require.Len(t, charts, 1)
	assert.Equal(t, "tickets_by_category", charts[0].ID)
}

func TestChartsMalformedSpecIsSkipped(t *testing.T) {
	a := &session.Analysis{Charts: map[string]string{
		"tickets_per_day":     `{"data":[`,
		"tickets_by_category": `[1,2,3]`,
		"resolution_trend":    `{"data":[]}`,
	}}

	charts := Charts(a)

	require.Len(t, charts, 1)
	assert.Equal(t, "resolution_trend", charts[0].ID)
}

func TestChartsEscapesScriptBreakers(t *testing.T) {
	a := &session.Analysis{Charts: map[string]string{
		"tickets_per_day": `{"layout":{"title":"</script><b>x</b>"}}`,
	}}

	charts := Charts(a)

	require.Len(t, charts, 1)
	assert.NotContains(t, string(charts[0].Spec), "</script>")
	assert.Contains(t, string(charts[0].Spec), `\u003c/script\u003e`)
}

func TestChartsNilAnalysis(t *testing.T) {
	assert.Empty(t, Charts(nil))
	assert.Empty(t, Charts(&session.Analysis{}))
}
