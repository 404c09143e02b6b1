package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type namedSummary struct {
	Column  string                    `json:"column"`
	Summary *stats.DescriptiveSummary `json:"summary"`
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func render(w io.Writer, title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, t.Render())
}

func note(w io.Writer, text string) {
	if text != "" {
		fmt.Fprintln(w, noteStyle.Render(text))
	}
	fmt.Fprintln(w)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func printDescriptive(w io.Writer, summaries []namedSummary) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Column,
			strconv.Itoa(s.Summary.N),
			num(s.Summary.Mean),
			num(s.Summary.StandardDeviation),
			num(s.Summary.Median),
			num(s.Summary.Min),
			num(s.Summary.Max),
			num(s.Summary.IQR),
			strconv.Itoa(len(s.Summary.Outliers)),
		})
	}
	render(w, "Descriptive statistics", []string{"Column", "N", "Mean", "SD", "Median", "Min", "Max", "IQR", "Outliers"}, rows)
	note(w, "")
}

func printCorrelation(w io.Writer, r *stats.CorrelationResult) {
	headers := append([]string{""}, r.Variables...)
	rows := make([][]string, 0, len(r.Matrix))
	for i, line := range r.Matrix {
		row := []string{r.Variables[i]}
		for _, v := range line {
			row = append(row, num(v))
		}
		rows = append(rows, row)
	}
	render(w, fmt.Sprintf("Pearson correlations (n = %d)", r.SampleSize), headers, rows)

	if len(r.Significant) > 0 {
		pairs := make([][]string, 0, len(r.Significant))
		for _, p := range r.Significant {
			pairs = append(pairs, []string{p.Var1, p.Var2, num(p.Correlation), num(p.PValue), string(p.Significance)})
		}
		render(w, "Significant pairs", []string{"Variable 1", "Variable 2", "r", "p", "Significance"}, pairs)
	}
	note(w, r.Interpretation)
}

func printTTest(w io.Writer, name1, name2 string, r *stats.TTestResult) {
	rows := [][]string{
		{"Mean " + name1, num(r.Mean1)},
		{"Mean " + name2, num(r.Mean2)},
		{"Difference", num(r.MeanDifference)},
		{"Standard error", num(r.StandardError)},
		{"t", num(r.TStatistic)},
		{"df", strconv.Itoa(r.DegreesOfFreedom)},
		{"p", num(r.PValue)},
		{"95% CI", fmt.Sprintf("[%s, %s]", num(r.ConfidenceInterval.Lower), num(r.ConfidenceInterval.Upper))},
		{"Cohen's d", num(r.EffectSize)},
		{"Significant", strconv.FormatBool(r.Significant)},
	}
	render(w, "Independent samples t-test", []string{"Statistic", "Value"}, rows)
	note(w, r.Interpretation)
}

func printReliability(w io.Writer, r *stats.ReliabilityResult) {
	rows := make([][]string, 0, len(r.ItemStatistics))
	for _, item := range r.ItemStatistics {
		ifDeleted := "-"
		if item.AlphaIfDeleted != nil {
			ifDeleted = num(*item.AlphaIfDeleted)
		}
		rows = append(rows, []string{strconv.Itoa(item.Item), num(item.Mean), num(item.Variance), num(item.CorrectedItemTotal), ifDeleted})
	}
	title := fmt.Sprintf("Cronbach's alpha = %s (%s, %d items, %d observations)", num(r.Alpha), r.Reliability, r.Items, r.Observations)
	render(w, title, []string{"Item", "Mean", "Variance", "Item-total r", "Alpha if deleted"}, rows)
	note(w, r.Interpretation)
}

func printContentValidity(w io.Writer, r *stats.ContentValidityResult) {
	review := make(map[int]bool, len(r.ItemsForReview))
	for _, i := range r.ItemsForReview {
		review[i] = true
	}
	rows := make([][]string, 0, len(r.ItemCVI))
	for i, cvi := range r.ItemCVI {
		flag := ""
		if review[i] {
			flag = "review"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), num(cvi), flag})
	}
	title := fmt.Sprintf("Content validity: S-CVI = %s (%s, %d judges)", num(r.ScaleCVI), r.Band, r.Judges)
	render(w, title, []string{"Item", "I-CVI", ""}, rows)
	for _, rec := range r.Recommendations {
		fmt.Fprintln(w, "- "+rec)
	}
	note(w, r.Interpretation)
}

func printSampleSize(w io.Writer, r *stats.SampleSizeResult) {
	rows := [][]string{
		{"z", num(r.ZScore)},
		{"n0 (infinite population)", num(r.Infinite)},
		{"Sample size", strconv.Itoa(r.SampleSize)},
		{fmt.Sprintf("With %d%% non-response", stats.NonResponseBufferPercent), strconv.Itoa(r.AdjustedSize)},
	}
	render(w, "Sample size", []string{"Quantity", "Value"}, rows)
	note(w, r.Interpretation)
}
