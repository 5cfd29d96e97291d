package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	feedLimit  int
	feedOutput string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Generate the JSON feed from the article index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		module := buildModule(true)
		defer module.Corpus.Close()

		if err := module.Corpus.EnsureSchema(ctx); err != nil {
			fatal("prepare index schema", err)
		}

		synd := module.Corpus.Syndication()
		if synd == nil {
			fatal("generate feed", fmt.Errorf("syndication requires --base-url or %s", "CORPUS_BASE_URL"))
		}

		payload, err := synd.Feed(ctx, feedLimit)
		if err != nil {
			fatal("generate feed", err)
		}
		writeArtifact(feedOutput, payload)
	},
}

func writeArtifact(path string, payload []byte) {
	if path == "" {
		_, _ = os.Stdout.Write(payload)
		return
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		fatal("write output", err)
	}
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntVar(&feedLimit, "limit", 0, "Maximum number of feed items (0 = configured cap)")
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", "", "Write the feed to a file instead of stdout")
}
