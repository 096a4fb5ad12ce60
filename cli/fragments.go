package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gear6io/hivebridge/server/catalog"
	"github.com/gear6io/hivebridge/server/filter"
	"github.com/gear6io/hivebridge/server/fragment"
	"github.com/gear6io/hivebridge/server/metastore"
	"github.com/gear6io/hivebridge/server/schema"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func (a *app) fragmentsCommand() *cobra.Command {
	var (
		checkFormat bool
		filters     *filterFlags
	)

	cmd := &cobra.Command{
		Use:   "fragments <db.table>",
		Short: "Split a table into per-file fragments",
		Long: `Split a table into one fragment per data file. Partition directories are
listed on HDFS when hdfs.name_nodes is configured and on the local
filesystem otherwise.

Comparison flags build a filter over the table columns. When it can be
pushed down the search argument is printed and the fragments are marked as
filtered.

Examples:
  hivebridge fragments default.sales --eq region=emea --ge dt=2024-03-01
  hivebridge fragments default.sales --in id=1,2,3 --not-null label`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := catalog.NewResolver(store, a.cfg.GetDefaultDatabase(), a.logger).ResolveItem(ctx, args[0])
			if err != nil {
				return err
			}

			lister, closeLister, err := a.fileLister()
			if err != nil {
				return err
			}
			defer closeLister()

			var opts []fragment.Option
			if checkFormat {
				opts = append(opts, fragment.WithInputFormatCheck())
			}
			if !filters.empty() {
				pushed, err := a.pushdown(ctx, cmd.OutOrStdout(), store, item, filters)
				if err != nil {
					return err
				}
				if pushed {
					opts = append(opts, fragment.WithFilterInFragmenter())
				}
			}
			fragments, err := fragment.NewFragmenter(store, lister, a.logger, opts...).Fragments(ctx, item)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"#", "ID", "SOURCE", "PARTITION", "FILTERED"}}
			for _, f := range fragments {
				m, err := fragment.Decode(f.Metadata)
				if err != nil {
					return err
				}
				keys, err := fragment.DecodePartitionKeys(m.PartitionKeys)
				if err != nil {
					return err
				}
				data = append(data, []string{
					strconv.Itoa(f.Index), f.ID, f.Source, partitionLabel(keys), strconv.FormatBool(m.FilterInFragmenter),
				})
			}
			return renderTable(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().BoolVar(&checkFormat, "check-format", false, "only accept RC, text and ORC input formats")
	filters = newFilterFlags(cmd)
	return cmd
}

// pushdown translates the filter flags against the table schema and reports
// whether a search argument was produced
func (a *app) pushdown(ctx context.Context, w io.Writer, store *metastore.Store, item catalog.Item, filters *filterFlags) (bool, error) {
	table, err := store.GetTable(ctx, item.Path, item.Name)
	if err != nil {
		return false, err
	}
	md, err := schema.TableMetadata(item, table)
	if err != nil {
		return false, err
	}
	tree, columns, err := filters.build(md.Fields)
	if err != nil {
		return false, err
	}

	pred := filter.NewTranslator(columns, filter.ConfigOptions(a.cfg.Pushdown, a.logger)...).Pushdown(tree)
	if pred == nil {
		fmt.Fprintln(w, "Filter not pushed down")
		return false, nil
	}
	fmt.Fprintf(w, "Pushed predicate: %s\n", pred)
	return true, nil
}

func (a *app) fileLister() (fragment.FileLister, func(), error) {
	if len(a.cfg.HDFS.NameNodes) == 0 {
		return fragment.LocalLister{}, func() {}, nil
	}
	lister, err := fragment.NewHDFSLister(a.cfg.HDFS.NameNodes, a.cfg.HDFS.User)
	if err != nil {
		return nil, nil, err
	}
	return lister, func() { lister.Close() }, nil
}

func partitionLabel(keys []fragment.PartitionKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Name + "=" + k.Value
	}
	return strings.Join(parts, "/")
}
