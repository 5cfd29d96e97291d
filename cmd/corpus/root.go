package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflectoring/reflectoring.github.io-sub011/cmd/corpus/internal/bootstrap"
)

var (
	contentDir string
	pattern    string
	workers    int
	schemaPath string
	dbDriver   string
	dbDSN      string
	baseURL    string
	logLevel   string
	envFile    string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Validate the front matter of a blog article corpus",
	Long: `corpus validates every article in a content directory against the
front-matter schema (required fields, timestamps, slug uniqueness), keeps an
article index in sync, and generates feed and sitemap artifacts from it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		bootstrap.LoadEnv(envFile)
		if contentDir == "" {
			contentDir = bootstrap.Getenv(bootstrap.EnvContentDir, "")
		}
		if pattern == "" {
			pattern = bootstrap.Getenv(bootstrap.EnvPattern, "")
		}
		if dbDriver == "" {
			dbDriver = bootstrap.Getenv(bootstrap.EnvDBDriver, "")
		}
		if dbDSN == "" {
			dbDSN = bootstrap.Getenv(bootstrap.EnvDBDSN, "")
		}
		if baseURL == "" {
			baseURL = bootstrap.Getenv(bootstrap.EnvBaseURL, "")
		}
		if logLevel == "" {
			logLevel = bootstrap.Getenv(bootstrap.EnvLogLevel, "info")
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&contentDir, "content-dir", "c", "", "corpus root directory (default \"content\")")
	rootCmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", "", "filename glob for article discovery (default \"**/*.md\")")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "parallel validation workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "optional JSON-Schema overlay applied to front matter")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "article index driver (sqlite)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "article index DSN")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "site base URL for syndication output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before flags are resolved")
}

func buildModule(storage bool) *bootstrap.Module {
	module, err := bootstrap.BuildModule(bootstrap.Options{
		ContentDir:     contentDir,
		Pattern:        pattern,
		Workers:        workers,
		SchemaPath:     schemaPath,
		StorageEnabled: storage,
		DBDriver:       dbDriver,
		DBDSN:          dbDSN,
		BaseURL:        baseURL,
		Debounce:       50 * time.Millisecond,
		LogLevel:       logLevel,
	})
	if err != nil {
		fatal("initialise corpus", err)
	}
	return module
}
