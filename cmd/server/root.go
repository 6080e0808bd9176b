package main

import (
	"github.com/spf13/cobra"

	"github.com/ndewijer/finance-ingest/internal/config"
	"github.com/ndewijer/finance-ingest/internal/version"
)

// options holds the persistent flags shared by every command.
type options struct {
	envFile  string
	dbPath   string
	basePath string
}

// loadConfig reads the environment and applies flag overrides on top.
func (o *options) loadConfig() (*config.Config, error) {
	var envFiles []string
	if o.envFile != "" {
		envFiles = append(envFiles, o.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.basePath != "" {
		cfg.Ingest.BasePath = o.basePath
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "finance-ingest",
		Short: "Ingest JSON transaction batch files into the ledger",
		Long: `finance-ingest watches {base}/json_in for JSON batch files of transactions.
Each file is parsed, validated and stored, then moved to exactly one of:

  .processed-successfully            every record stored or already present
  .not-processed-non-json-file       file name does not end in .json
  .not-processed-json-parsing-errors payload is not a JSON array of objects
  .not-processed-failed-with-errors  a record failed validation or storage

Example Usage:
  finance-ingest serve                       # watch the input directory and serve the API
  finance-ingest ingest                      # process every file currently waiting
  finance-ingest ingest batch.json           # process one waiting file
  finance-ingest migrate --db ./ledger.db    # apply schema migrations only`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to an env file (default is .env when present)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path, overrides DB_PATH")
	cmd.PersistentFlags().StringVar(&opts.basePath, "base-path", "", "Ingestion base directory, overrides INGEST_BASE_PATH")

	cmd.AddCommand(
		newServeCmd(opts),
		newIngestCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}
