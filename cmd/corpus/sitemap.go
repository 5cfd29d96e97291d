package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sitemapOutput string

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate the XML sitemap from the article index",
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
			fatal("generate sitemap", fmt.Errorf("syndication requires --base-url or %s", "CORPUS_BASE_URL"))
		}

		payload, err := synd.Sitemap(ctx)
		if err != nil {
			fatal("generate sitemap", err)
		}
		writeArtifact(sitemapOutput, payload)
	},
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
	sitemapCmd.Flags().StringVarP(&sitemapOutput, "output", "o", "", "Write the sitemap to a file instead of stdout")
}
