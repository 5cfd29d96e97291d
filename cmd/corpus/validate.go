package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

var (
	validateJSON   bool
	failViolations bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every article's front matter and report violations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		module := buildModule(false)
		defer module.Corpus.Close()

		cfg := module.Corpus.Config()
		report, err := module.Corpus.Validator().ValidateCorpus(context.Background(), cfg.Corpus.ContentDir, interfaces.LoadOptions{})
		if err != nil {
			fatal("validate corpus", err)
		}

		if validateJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("encode report", err)
			}
		} else {
			printReport(report)
		}

		if failViolations && !report.Clean() {
			os.Exit(1)
		}
	},
}

func printReport(report *interfaces.Report) {
	for _, doc := range report.Documents {
		if doc.Valid() {
			continue
		}
		fmt.Printf("%s\n", doc.FilePath)
		for _, violation := range doc.Violations {
			if violation.Field != "" {
				fmt.Printf("  [%s] %s: %s\n", violation.Code, violation.Field, violation.Message)
			} else {
				fmt.Printf("  [%s] %s\n", violation.Code, violation.Message)
			}
		}
	}
	fmt.Printf("%d scanned, %d valid, %d invalid, %d duplicate slugs (%s)\n",
		report.Scanned, report.Valid, report.Invalid, len(report.Duplicates), report.Duration.Round(time.Millisecond))
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the full report as JSON")
	validateCmd.Flags().BoolVar(&failViolations, "fail-on-violations", false, "Exit non-zero when any violation is found")
}
