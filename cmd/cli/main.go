package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every data command
type options struct {
	file    string
	sheet   string
	columns []string
	json    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "synapsis-cli",
		Short: "Research statistics from spreadsheets: descriptives, correlations, t-tests, reliability and validity",
		Long: `synapsis-cli runs the statistics kit against .xlsx or .csv files.

Each column is one variable; the first row holds the column names.

Example: synapsis-cli alpha --file survey.xlsx --columns q1,q2,q3,q4`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Spreadsheet to read (.xlsx or .csv)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "Excel sheet name (default: first sheet)")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.columns, "columns", "c", nil, "Columns to analyse (default: all)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newDescribeCmd(opts),
		newCorrelateCmd(opts),
		newTTestCmd(opts),
		newAlphaCmd(opts),
		newCVICmd(opts),
		newSampleSizeCmd(opts),
		newDemoCmd(opts),
	)
	return rootCmd
}
