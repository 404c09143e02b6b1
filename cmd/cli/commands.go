package main

import (
	"fmt"

	"github.com/francisco-sereno/synapsis-bolt-sub001/adapters/excel"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/statkit"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/testkit"

	"github.com/spf13/cobra"
)

func (o *options) table() (*excel.Table, error) {
	if o.file == "" {
		return nil, fmt.Errorf("--file is required")
	}
	return excel.NewDataReader(o.file, o.sheet).ReadData()
}

func newDescribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Descriptive statistics and IQR outliers for each column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			columns := opts.columns
			if len(columns) == 0 {
				columns = table.Headers
			}

			summaries := make([]namedSummary, 0, len(columns))
			for _, name := range columns {
				data, err := table.Column(name)
				if err != nil {
					return err
				}
				summary, err := statkit.Describe(data)
				if err != nil {
					return fmt.Errorf("column %q: %w", name, err)
				}
				summaries = append(summaries, namedSummary{Column: name, Summary: summary})
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			printDescriptive(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
}

func newCorrelateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "Pearson correlation matrix with significance of every pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			variables, err := table.Variables(opts.columns...)
			if err != nil {
				return err
			}
			result, err := statkit.Correlate(variables)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printCorrelation(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newTTestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ttest",
		Short: "Independent two-sample t-test between two columns",
		Long: `Compare the means of two columns with a Welch standard error.

Example: synapsis-cli ttest --file scores.csv --columns control,treatment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.columns) != 2 {
				return fmt.Errorf("ttest needs exactly two --columns, got %d", len(opts.columns))
			}
			table, err := opts.table()
			if err != nil {
				return err
			}
			group1, err := table.Column(opts.columns[0])
			if err != nil {
				return err
			}
			group2, err := table.Column(opts.columns[1])
			if err != nil {
				return err
			}
			result, err := statkit.TTest(group1, group2)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printTTest(cmd.OutOrStdout(), opts.columns[0], opts.columns[1], result)
			return nil
		},
	}
}

func newAlphaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "alpha",
		Short: "Cronbach's alpha with item statistics (columns are items, rows are respondents)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			matrix, err := table.RatingMatrix(opts.columns...)
			if err != nil {
				return err
			}
			result, err := statkit.CronbachAlpha(matrix)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printReliability(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newCVICmd(opts *options) *cobra.Command {
	var judgeColumn string

	cmd := &cobra.Command{
		Use:   "cvi",
		Short: "Content validity index (rows are judges, columns are items rated 1-4)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			panel, err := table.JudgePanel(judgeColumn, opts.columns...)
			if err != nil {
				return err
			}
			result, err := statkit.ContentValidity(panel)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printContentValidity(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&judgeColumn, "judge-column", "", "Column holding judge names")
	return cmd
}

func newSampleSizeCmd(opts *options) *cobra.Command {
	var params stats.SampleSizeParams

	cmd := &cobra.Command{
		Use:   "samplesize",
		Short: "Sample size needed to estimate a proportion",
		Long: `Sample size for a proportion with optional finite population correction.

Example: synapsis-cli samplesize --population 1200 --confidence 95 --margin 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := statkit.SampleSize(params)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printSampleSize(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.PopulationSize, "population", 0, "Population size (0 = infinite)")
	cmd.Flags().Float64Var(&params.ConfidenceLevel, "confidence", 95, "Confidence level in percent")
	cmd.Flags().Float64Var(&params.MarginOfError, "margin", 5, "Margin of error in percent")
	cmd.Flags().Float64Var(&params.ExpectedProportion, "proportion", 0.5, "Expected proportion")
	return cmd
}

func newDemoCmd(opts *options) *cobra.Command {
	config := testkit.DefaultSurveyConfig()
	var judges int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run every analysis on a seeded synthetic survey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, err := testkit.NewSurveyGenerator(config)
			if err != nil {
				return err
			}

			reliability, err := statkit.CronbachAlpha(generator.RatingMatrix())
			if err != nil {
				return err
			}
			variables := generator.Variables()
			if len(variables) > 4 {
				variables = variables[:4]
			}
			correlation, err := statkit.Correlate(variables)
			if err != nil {
				return err
			}
			validity, err := statkit.ContentValidity(generator.JudgePanel(judges, 0.85))
			if err != nil {
				return err
			}
			size, err := statkit.SampleSize(stats.SampleSizeParams{PopulationSize: config.Respondents * 10, ConfidenceLevel: 95, MarginOfError: 5})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]interface{}{
					"reliability":      reliability,
					"correlation":      correlation,
					"content_validity": validity,
					"sample_size":      size,
				})
			}
			printReliability(out, reliability)
			printCorrelation(out, correlation)
			printContentValidity(out, validity)
			printSampleSize(out, size)
			return nil
		},
	}

	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic data")
	cmd.Flags().IntVar(&config.Respondents, "respondents", config.Respondents, "Number of synthetic respondents")
	cmd.Flags().IntVar(&config.Items, "items", config.Items, "Number of Likert items")
	cmd.Flags().IntVar(&judges, "judges", 6, "Number of content validity judges")
	return cmd
}
