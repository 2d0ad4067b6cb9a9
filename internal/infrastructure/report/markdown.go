// Package report renders analysis results for investigators. Output is
// deterministic for a given report: iteration follows the engine's
// canonical ordering and the caller supplies the generation timestamp.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/service/analysis"
)

// WriteMarkdown renders the full report as a markdown document.
func WriteMarkdown(w io.Writer, rep *analysis.Report, generatedAt time.Time) error {
	mw := &markdownWriter{w: w}

	mw.printf("# Behavioral Analysis Report\n\n")
	mw.printf("Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))
	mw.printf("Identities analyzed: %d\n\n", len(rep.Results))

	mw.printf("## Risk Summary\n\n")
	mw.printf("| Identity | Level | Score | Findings | Links |\n")
	mw.printf("|----------|-------|-------|----------|-------|\n")
	for _, res := range rep.Results {
		mw.printf("| %s | %s | %d | %d | %d |\n",
			res.Identity, res.Score.Level, res.Score.Total,
			len(res.Findings), len(res.Links))
	}
	mw.printf("\n")

	for _, res := range rep.Results {
		writeIdentity(mw, res)
	}
	return mw.err
}

func writeIdentity(mw *markdownWriter, res *analysis.IdentityResult) {
	mw.printf("## %s\n\n", res.Identity)
	mw.printf("**Risk: %s (%d/100)**\n\n", res.Score.Level, res.Score.Total)

	if len(res.Score.CategoryPoints) > 0 {
		mw.printf("### Score Breakdown\n\n")
		cats := make([]finding.Category, 0, len(res.Score.CategoryPoints))
		for cat := range res.Score.CategoryPoints {
			cats = append(cats, cat)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
		for _, cat := range cats {
			mw.printf("- %s: %d points\n", cat, res.Score.CategoryPoints[cat])
		}
		mw.printf("\n")
	}

	for _, o := range res.Score.Overrides {
		mw.printf("> %s\n\n", o.Reason)
	}

	if len(res.Findings) > 0 {
		mw.printf("### Findings\n\n")
		for _, f := range res.Findings {
			mw.printf("- `%s` [%s, %s] %s\n", f.Pattern, f.Category, f.Severity, f.Description)
		}
		mw.printf("\n")
	}

	if len(res.Links) > 0 {
		mw.printf("### Cross-Source Links\n\n")
		for _, l := range res.Links {
			mw.printf("- `%s` [%s] %s\n", l.Type, l.Confidence, l.Description)
		}
		mw.printf("\n")
	}

	if res.Chain != nil && len(res.Chain.Entries) > 0 {
		mw.printf("### Evidence Chain\n\n")
		for _, e := range res.Chain.Entries {
			ts := "-"
			if !e.Timestamp.IsZero() {
				ts = e.Timestamp.UTC().Format("2006-01-02 15:04:05")
			}
			mw.printf("1. %s %s\n", ts, e.Summary())
		}
		mw.printf("\n")
	}
}

// markdownWriter latches the first write error so rendering code stays
// free of error plumbing.
type markdownWriter struct {
	w   io.Writer
	err error
}

func (m *markdownWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}
