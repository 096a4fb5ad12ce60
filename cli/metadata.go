package cli

import (
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog"
	"github.com/gear6io/hivebridge/server/schema"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func (a *app) metadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <pattern>",
		Short: "Show the engine schema of matching tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := catalog.NewClient(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			tables, ok := client.(schema.TableSource)
			if !ok {
				return errors.Newf(ErrCatalogNotSupported, "%s catalog cannot load table schemas", a.cfg.GetCatalogType())
			}
			resolver := catalog.NewResolver(client, a.cfg.GetDefaultDatabase(), a.logger)
			metas, err := schema.NewDiscoverer(resolver, tables, a.logger).Discover(ctx, args[0])
			if err != nil {
				return err
			}

			data := pterm.TableData{{"TABLE", "COLUMN", "HIVE TYPE", "ENGINE TYPE", "MODIFIERS", "PARTITION"}}
			for _, m := range metas {
				partitionStart := len(m.Fields) - m.PartitionFields
				for i, f := range m.Fields {
					partition := ""
					if i >= partitionStart {
						partition = "yes"
					}
					data = append(data, []string{
						m.Item.String(),
						f.Name,
						f.SourceTypeName,
						f.Type.String(),
						strings.Join(f.Modifiers, ","),
						partition,
					})
				}
			}
			return renderTable(cmd.OutOrStdout(), data)
		},
	}
}
