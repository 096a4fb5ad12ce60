package cli

import (
	"github.com/gear6io/hivebridge/server/catalog"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func (a *app) tablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables <pattern>",
		Short: "List the tables a pattern resolves to",
		Long: `List the tables matching <table>, <db>.<table> or a wildcard pattern
such as 'sales*' or 'db*.t*|s*'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := catalog.NewClient(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			resolver := catalog.NewResolver(client, a.cfg.GetDefaultDatabase(), a.logger)
			items, err := resolver.ResolvePattern(ctx, args[0])
			if err != nil {
				return err
			}

			data := pterm.TableData{{"DATABASE", "TABLE"}}
			for _, item := range items {
				data = append(data, []string{item.Path, item.Name})
			}
			return renderTable(cmd.OutOrStdout(), data)
		},
	}
}
