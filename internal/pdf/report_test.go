package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/models"
)

func TestPipelineReportProducesPDF(t *testing.T) {
	gen := NewReportGenerator()

	totals := []models.StageTotal{
		{Stage: "prospect", Count: 3, TotalValue: 1500, TotalWeighted: 150},
		{Stage: "proposal", Count: 1, TotalValue: 5000, TotalWeighted: 2500},
	}

	var buf bytes.Buffer
	require.NoError(t, gen.PipelineReport(totals, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPipelineReportEmptyTotals(t *testing.T) {
	gen := NewReportGenerator()

	var buf bytes.Buffer
	require.NoError(t, gen.PipelineReport(nil, time.Now(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
