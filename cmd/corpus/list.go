package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
)

var (
	listJSON   bool
	listLimit  int
	listOffset int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed articles, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		module := buildModule(true)
		defer module.Corpus.Close()

		if err := module.Corpus.EnsureSchema(ctx); err != nil {
			fatal("prepare index schema", err)
		}

		articles := module.Corpus.Index()
		if articles == nil {
			fatal("list articles", fmt.Errorf("article index is not configured"))
		}

		records, err := articles.List(ctx, index.ListOptions{Limit: listLimit, Offset: listOffset})
		if err != nil {
			fatal("list articles", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(records); err != nil {
				fatal("encode articles", err)
			}
			return
		}

		for _, record := range records {
			fmt.Printf("%s  %s  %s\n", record.PublishedAt.Format("2006-01-02"), record.Slug, record.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of articles to list")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of articles to skip")
}
