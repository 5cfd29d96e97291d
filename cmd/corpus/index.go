package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Validate the corpus and mirror valid articles into the index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		module := buildModule(true)
		defer module.Corpus.Close()

		if err := module.Corpus.EnsureSchema(ctx); err != nil {
			fatal("prepare index schema", err)
		}

		cfg := module.Corpus.Config()
		report, err := module.Corpus.Validator().ValidateCorpus(ctx, cfg.Corpus.ContentDir, interfaces.LoadOptions{})
		if err != nil {
			fatal("validate corpus", err)
		}

		articles := module.Corpus.Index()
		if articles == nil {
			fatal("index corpus", fmt.Errorf("article index is not configured"))
		}

		var summary *index.Summary
		if indexRebuild {
			summary, err = articles.Rebuild(ctx, report)
		} else {
			summary, err = articles.IndexReport(ctx, report)
		}
		if err != nil {
			fatal("index corpus", err)
		}

		fmt.Printf("%d indexed, %d skipped, %d removed\n", summary.Indexed, summary.Skipped, summary.Removed)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Replace the whole index with the current valid set")
}
