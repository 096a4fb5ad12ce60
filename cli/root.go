package cli

import (
	"context"
	"io"
	"os"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/config"
	"github.com/gear6io/hivebridge/server/metastore"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "hivebridge.yml"

var ErrCatalogNotSupported = errors.MustNewCode("cli.catalog_not_supported")

// app carries the state shared by all subcommands
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand builds the hivebridge command tree
func NewRootCommand() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "hivebridge",
		Short: "Inspect Hive tables the way the connector sees them",
		Long: `hivebridge resolves Hive table patterns, maps Hive column types onto
engine types and splits tables into fragments with their reader metadata.

Examples:
  hivebridge tables 'sales*'
  hivebridge metadata default.sales
  hivebridge fragments default.sales
  hivebridge fragments default.sales --eq region=emea
  hivebridge decode fragment.bin`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		a.tablesCommand(),
		a.metadataCommand(),
		a.fragmentsCommand(),
		a.decodeCommand(),
	)
	return cmd
}

// ExecuteWithContext runs the command tree
func ExecuteWithContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads the configuration and logger. A missing default config file
// falls back to defaults; a missing explicit one is an error.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		if _, statErr := os.Stat(a.configPath); !os.IsNotExist(statErr) || cmd.Flags().Changed("config") {
			return err
		}
		cfg = config.LoadDefaultConfig()
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := config.SetupLogger(cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug().Str("cmd", cmd.Name()).Str("config", a.configPath).Msg("Executing command")
	return nil
}

// openStore opens the metastore; table contents are only available there
func (a *app) openStore() (*metastore.Store, error) {
	if a.cfg.GetCatalogType() != config.CatalogTypeMetastore {
		return nil, errors.Newf(ErrCatalogNotSupported, "command requires the %s catalog, configured catalog is %s",
			config.CatalogTypeMetastore, a.cfg.GetCatalogType())
	}
	return metastore.NewStore(a.cfg.Metastore.Path, a.logger)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
