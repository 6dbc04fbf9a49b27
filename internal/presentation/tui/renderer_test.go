package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	r := domain.NewReport("abc", "druid.txt")
	r.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.Add(domain.NewOutcome(domain.NewExpression(1, "3 5 +"), 8, nil))
	r.Add(domain.NewOutcome(domain.NewExpression(2, "3 | &"), 0, &rpn.Error{Kind: rpn.KindInvalidToken, Token: "|", Position: 1}))
	return r
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	assert.Contains(t, md, "# Report abc")
	assert.Contains(t, md, "- **Source:** druid.txt")
	assert.Contains(t, md, "- **Created:** 2026-01-02 03:04:05 UTC")
	assert.Contains(t, md, "- **Expressions:** 2 (1 ok, 1 failed)")
	assert.Contains(t, md, "- **Failed lines:** 2\n")
	assert.Contains(t, md, "| 1 | `3 5 +` | `8` |")
	assert.Contains(t, md, "| 2 | `3 \\| &` | **invalid_token**: invalid token \"\\|\" at position 1 |")
}

func TestReportMarkdown_Empty(t *testing.T) {
	md := ReportMarkdown(domain.NewReport("empty", ""))
	assert.Contains(t, md, "_No expressions._")
	assert.NotContains(t, md, "Source")
	assert.NotContains(t, md, "Failed lines")
}

func TestRenderReport(t *testing.T) {
	plain, err := RenderReport(sampleReport(), false, "")
	require.NoError(t, err)
	assert.Equal(t, ReportMarkdown(sampleReport()), plain)

	styled, err := RenderReport(sampleReport(), true, "notty")
	require.NoError(t, err)
	assert.Contains(t, styled, "Report abc")
	assert.Contains(t, styled, "3 5 +")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.Ascii)

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Equal(t, len(bannerLines)+2, strings.Count(out, "\n"))
}
