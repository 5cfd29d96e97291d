package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchIndex bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidate the corpus whenever article files change",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		module := buildModule(watchIndex)
		defer module.Corpus.Close()

		if watchIndex {
			if err := module.Corpus.EnsureSchema(ctx); err != nil {
				fatal("prepare index schema", err)
			}
		}

		module.Logger.Info("watching corpus", "dir", module.Corpus.Config().Corpus.ContentDir)
		if err := module.Corpus.Watcher().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fatal("watch corpus", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchIndex, "index", false, "Mirror revalidation results into the article index")
}
