package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hpdist/internal/game/hitpoints"
	"github.com/cory-johannsen/hpdist/internal/report"
)

func scenarioStats(t *testing.T) hitpoints.Statistics {
	t.Helper()
	d := hitpoints.NewDistribution(4, false)
	require.NoError(t, d.AddLevel(1, []int{8}))
	require.NoError(t, d.AddLevel(2, []int{2, 3, 4, 5, 6, 7, 8}))
	s, err := d.Statistics(2)
	require.NoError(t, err)
	return s
}

func TestNewDocument(t *testing.T) {
	doc := report.NewDocument("Jasira", scenarioStats(t))
	assert.Equal(t, "Jasira", doc.Title)
	assert.Equal(t, 2, doc.MaxLevel)
	assert.Equal(t, 18, doc.Worst)
	assert.Equal(t, 24, doc.Best)
	assert.Equal(t, "21/1", doc.Mean)
	assert.Equal(t, "21.00", doc.MeanDecimal)
	assert.Equal(t, "7", doc.TotalCount)
	require.Len(t, doc.Rows, 7)
	assert.Equal(t, report.Row{
		Total:             18,
		Count:             "1",
		CumulativePercent: "14.29",
		TailPercent:       "100.00",
		TailChance:        "1/1",
	}, doc.Rows[0])
	assert.Equal(t, "100.00", doc.Rows[6].CumulativePercent)
	assert.Equal(t, "1/7", doc.Rows[6].TailChance)
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatTable, Title: "Jasira"})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Jasira (levels 1-2)")
	assert.Contains(t, out, "Worst case:")
	assert.Contains(t, out, "Best case:")
	assert.Contains(t, out, "21/1 (21.00)")
	assert.Contains(t, out, "Chance >= HP %")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, four header lines, blank, column header, seven rows
	require.Len(t, lines, 14)
	assert.Equal(t, []string{"18", "1", "14.29", "100.00", "1/1"}, strings.Fields(lines[7]))
	assert.Equal(t, []string{"24", "1", "100.00", "14.29", "1/7"}, strings.Fields(lines[13]))
}

func TestRender_TableGroupsDigitsByLocale(t *testing.T) {
	d := hitpoints.NewDistribution(0, false)
	outcomes := make([]int, 0, 1000)
	for i := 0; i < 1000; i++ {
		outcomes = append(outcomes, 1)
	}
	require.NoError(t, d.AddLevel(1, outcomes))
	require.NoError(t, d.AddLevel(2, outcomes))
	s, err := d.Statistics(2)
	require.NoError(t, err)

	var en, de bytes.Buffer
	require.NoError(t, report.Render(&en, s, report.Options{Locale: "en-US"}))
	require.NoError(t, report.Render(&de, s, report.Options{Locale: "de-DE"}))
	assert.Contains(t, en.String(), "1,000,000")
	assert.Contains(t, de.String(), "1.000.000")
}

func TestRender_TableInvalidLocale(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatTable, Locale: "!!"})
	assert.Error(t, err)
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatJSON, Title: "Jasira"}))
	var doc report.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, report.NewDocument("Jasira", scenarioStats(t)), doc)
	assert.Contains(t, buf.String(), `"tail_chance": "1/7"`)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatYAML}))
	var doc report.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, report.NewDocument("", scenarioStats(t)), doc)
	assert.Contains(t, buf.String(), "mean: 21/1")
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRender_PercentileInEveryFormat(t *testing.T) {
	var table bytes.Buffer
	require.NoError(t, report.Render(&table, scenarioStats(t), report.Options{Format: report.FormatTable, Percentile: pct("50")}))
	assert.True(t, strings.HasSuffix(table.String(), "\n50 percentile: 21 HP\n"), table.String())

	var js bytes.Buffer
	require.NoError(t, report.Render(&js, scenarioStats(t), report.Options{Format: report.FormatJSON, Percentile: pct("50")}))
	var jdoc report.Document
	require.NoError(t, json.Unmarshal(js.Bytes(), &jdoc))
	require.NotNil(t, jdoc.Percentile)
	assert.Equal(t, report.Percentile{Percent: "50", Total: 21}, *jdoc.Percentile)

	var ym bytes.Buffer
	require.NoError(t, report.Render(&ym, scenarioStats(t), report.Options{Format: report.FormatYAML, Percentile: pct("100")}))
	var ydoc report.Document
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &ydoc))
	require.NotNil(t, ydoc.Percentile)
	assert.Equal(t, report.Percentile{Percent: "100", Total: 24}, *ydoc.Percentile)
}

func TestRender_NoPercentileOmitsField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatJSON}))
	assert.NotContains(t, buf.String(), "percentile")
}

func TestRender_PercentileOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, scenarioStats(t), report.Options{Format: report.FormatJSON, Percentile: pct("0")})
	assert.ErrorIs(t, err, hitpoints.ErrInvalidPercentile)
	assert.Zero(t, buf.Len())
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, scenarioStats(t), report.Options{Format: "csv"})
	assert.Error(t, err)
}
