package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	corpus "github.com/reflectoring/reflectoring.github.io-sub011"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of corpus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("corpus version %s\n", strings.TrimSpace(corpus.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
