// Package report renders stored analyses as Markdown and HTML documents.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders an analysis as a Markdown document
func Markdown(analysis *stats.Analysis) (string, error) {
	if analysis == nil {
		return "", core.NewInvalidInputError(core.ErrInvalidInput, "analysis is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(analysis.Name))
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Project | %s |\n", escape(analysis.ProjectID))
	fmt.Fprintf(&b, "| Type | %s |\n", analysis.Type)
	fmt.Fprintf(&b, "| Status | %s |\n", analysis.Status)
	fmt.Fprintf(&b, "| Created | %s |\n\n", analysis.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	if analysis.Status == stats.AnalysisFailed {
		fmt.Fprintf(&b, "## Error\n\n%s\n", escape(analysis.ErrorMessage))
		return b.String(), nil
	}

	var err error
	switch analysis.Type {
	case stats.AnalysisDescriptive:
		err = section[stats.DescriptiveSummary](&b, analysis.Results, writeDescriptive)
	case stats.AnalysisCorrelation:
		err = section[stats.CorrelationResult](&b, analysis.Results, writeCorrelation)
	case stats.AnalysisTTest:
		err = section[stats.TTestResult](&b, analysis.Results, writeTTest)
	case stats.AnalysisReliability:
		err = section[stats.ReliabilityResult](&b, analysis.Results, writeReliability)
	case stats.AnalysisContentValidity:
		err = section[stats.ContentValidityResult](&b, analysis.Results, writeContentValidity)
	case stats.AnalysisExpertJudgment:
		err = section[stats.ExpertJudgmentResult](&b, analysis.Results, writeExpertJudgment)
	case stats.AnalysisSampleSize:
		err = section[stats.SampleSizeResult](&b, analysis.Results, writeSampleSize)
	default:
		err = core.NewInvalidInputError(core.ErrInvalidInput, "no report layout for analysis type %q", analysis.Type)
	}
	if err != nil {
		return "", err
	}

	if analysis.Interpretation != "" {
		fmt.Fprintf(&b, "\n## Interpretation\n\n%s\n", escapeMarkup(analysis.Interpretation))
	}
	return b.String(), nil
}

// HTML renders an analysis as a complete HTML page
func HTML(analysis *stats.Analysis) ([]byte, error) {
	md, err := Markdown(analysis)
	if err != nil {
		return nil, err
	}
	return RenderHTML(md, analysis.Name), nil
}

// RenderHTML converts Markdown into a standalone HTML page with the given title
func RenderHTML(md, title string) []byte {
	// the smartypants title path copies tags verbatim, so escape it here
	var escapedTitle bytes.Buffer
	html.EscapeHTML(&escapedTitle, []byte(title))

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: escapedTitle.String(),
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank | html.SkipHTML | html.Safelink,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func section[T any](b *strings.Builder, raw json.RawMessage, write func(*strings.Builder, *T)) error {
	if len(raw) == 0 {
		return core.NewInvalidInputError(core.ErrInvalidInput, "analysis has no results")
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return core.NewInvalidInputError(core.ErrInvalidInput, "malformed results: %v", err)
	}
	write(b, &result)
	return nil
}

func writeDescriptive(b *strings.Builder, r *stats.DescriptiveSummary) {
	b.WriteString("## Descriptive statistics\n\n| Statistic | Value |\n|---|---|\n")
	row(b, "N", fmt.Sprintf("%d", r.N))
	row(b, "Mean", num(r.Mean))
	row(b, "Median", num(r.Median))
	row(b, "Mode", list(r.Mode))
	row(b, "Variance", num(r.Variance))
	row(b, "Standard deviation", num(r.StandardDeviation))
	row(b, "Min", num(r.Min))
	row(b, "Max", num(r.Max))
	row(b, "Range", num(r.Range))
	row(b, "Q1 / Q2 / Q3", fmt.Sprintf("%s / %s / %s", num(r.Quartiles.Q1), num(r.Quartiles.Q2), num(r.Quartiles.Q3)))
	row(b, "IQR", num(r.IQR))
	row(b, "Outlier fences", fmt.Sprintf("[%s, %s]", num(r.LowerFence), num(r.UpperFence)))
	row(b, "Outliers", list(r.Outliers))
}

func writeCorrelation(b *strings.Builder, r *stats.CorrelationResult) {
	fmt.Fprintf(b, "## Correlation matrix (n = %d)\n\n|   |", r.SampleSize)
	for _, name := range r.Variables {
		fmt.Fprintf(b, " %s |", escape(name))
	}
	b.WriteString("\n|---|")
	for range r.Variables {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, name := range r.Variables {
		fmt.Fprintf(b, "| **%s** |", escape(name))
		for j := range r.Variables {
			fmt.Fprintf(b, " %.3f |", r.Matrix[i][j])
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Pairs\n\n| Variable 1 | Variable 2 | r | p | Significance |\n|---|---|---|---|---|\n")
	for _, pair := range r.Pairs {
		fmt.Fprintf(b, "| %s | %s | %.3f | %s | %s |\n", escape(pair.Var1), escape(pair.Var2), pair.Correlation, pValue(pair.PValue), pair.Significance)
	}
}

func writeTTest(b *strings.Builder, r *stats.TTestResult) {
	b.WriteString("## Independent samples t-test\n\n| Statistic | Value |\n|---|---|\n")
	row(b, "Mean (group 1)", num(r.Mean1))
	row(b, "Mean (group 2)", num(r.Mean2))
	row(b, "Mean difference", num(r.MeanDifference))
	row(b, "Standard error", num(r.StandardError))
	row(b, "t", num(r.TStatistic))
	row(b, "Degrees of freedom", fmt.Sprintf("%d", r.DegreesOfFreedom))
	row(b, "p", pValue(r.PValue))
	row(b, "95% CI", fmt.Sprintf("[%s, %s]", num(r.ConfidenceInterval.Lower), num(r.ConfidenceInterval.Upper)))
	row(b, "Effect size (d)", num(r.EffectSize))
	row(b, "Significant", fmt.Sprintf("%t", r.Significant))
}

func writeReliability(b *strings.Builder, r *stats.ReliabilityResult) {
	fmt.Fprintf(b, "## Reliability\n\nCronbach's alpha: **%.3f** (%s), %d items, %d observations.\n\n", r.Alpha, r.Reliability, r.Items, r.Observations)
	b.WriteString("| Item | Mean | Variance | Corrected item-total r | Alpha if deleted |\n|---|---|---|---|---|\n")
	for _, item := range r.ItemStatistics {
		ifDeleted := "n/a"
		if item.AlphaIfDeleted != nil {
			ifDeleted = fmt.Sprintf("%.3f", *item.AlphaIfDeleted)
		}
		fmt.Fprintf(b, "| %d | %s | %s | %.3f | %s |\n", item.Item, num(item.Mean), num(item.Variance), item.CorrectedItemTotal, ifDeleted)
	}
}

func writeContentValidity(b *strings.Builder, r *stats.ContentValidityResult) {
	fmt.Fprintf(b, "## Content validity\n\nScale CVI: **%.2f** (%s), %d judges.\n\n", r.ScaleCVI, r.Band, r.Judges)
	b.WriteString("| Item | CVI |\n|---|---|\n")
	for i, cvi := range r.ItemCVI {
		fmt.Fprintf(b, "| %d | %.2f |\n", i+1, cvi)
	}
	bullets(b, "Recommendations", r.Recommendations)
}

func writeExpertJudgment(b *strings.Builder, r *stats.ExpertJudgmentResult) {
	fmt.Fprintf(b, "## Expert judgment\n\nScale CVI: **%.2f** (%s), %d experts, agreement %.2f.\n\n", r.ScaleCVI, r.Band, r.Experts, r.ExpertAgreement)
	b.WriteString("| Item | Relevance | Clarity | Coherence |\n|---|---|---|---|\n")
	for _, item := range r.Items {
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f |\n", escape(item.ItemID), item.RelevanceCVI, item.ClarityCVI, item.CoherenceCVI)
	}
	bullets(b, "Recommendations", r.Recommendations)
}

func writeSampleSize(b *strings.Builder, r *stats.SampleSizeResult) {
	b.WriteString("## Sample size\n\n| Statistic | Value |\n|---|---|\n")
	row(b, "z", fmt.Sprintf("%.3f", r.ZScore))
	row(b, "Infinite population size", num(r.Infinite))
	row(b, "Required sample", fmt.Sprintf("%d", r.SampleSize))
	row(b, fmt.Sprintf("With %d%% non-response buffer", stats.NonResponseBufferPercent), fmt.Sprintf("%d", r.AdjustedSize))
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

func bullets(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, line := range lines {
		fmt.Fprintf(b, "- %s\n", escape(line))
	}
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func pValue(p float64) string {
	if p < 0.001 {
		return "< 0.001"
	}
	return fmt.Sprintf("%.3f", p)
}

func list(values []float64) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = num(v)
	}
	return strings.Join(parts, ", ")
}

var (
	cellEscaper   = strings.NewReplacer("|", `\|`, "\n", " ", "<", `\<`, ">", `\>`)
	markupEscaper = strings.NewReplacer("<", `\<`, ">", `\>`)
)

// escape keeps user supplied names from breaking table cells or injecting markup
func escape(s string) string {
	return cellEscaper.Replace(s)
}

// escapeMarkup turns angle brackets into literal text and keeps line breaks
func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}
