package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	rep := New("pipeline.csv", sampleRecords(), 1, 24*time.Hour)

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, rep))
	out := b.String()

	assert.Contains(t, out, "pipeline.csv")
	assert.Contains(t, out, "Carlos")
	assert.Contains(t, out, "Projeto Alfa")
	assert.Contains(t, out, "Próximo Follow-up: #1")
	assert.Contains(t, out, "1. **SITUAÇÃO:** tudo certo.")
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	records := sampleRecords()
	records[0].Recommendation = `<script>alert("x")</script>`
	rep := New("pipeline.csv", records, 0, time.Hour)

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, rep))
	assert.NotContains(t, b.String(), "<script>alert")
}

func TestRenderOwnerHTML(t *testing.T) {
	rep := New("pipeline.csv", sampleRecords(), 0, time.Hour)
	records, ok := rep.OwnerRecords("Carlos")
	require.True(t, ok)

	var b strings.Builder
	require.NoError(t, RenderOwnerHTML(&b, "Carlos", records))
	assert.Contains(t, b.String(), "Follow-ups de Carlos")
	assert.Contains(t, b.String(), "Acme")
}
