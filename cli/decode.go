package cli

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/fragment"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var ErrReadInput = errors.MustNewCode("cli.read_input")

func (a *app) decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode fragment metadata",
		Long:  `Decode a fragment metadata record read from a file, or from stdin with '-'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			m, err := fragment.Decode(data)
			if err != nil {
				return err
			}
			keys, err := fragment.DecodePartitionKeys(m.PartitionKeys)
			if err != nil {
				return err
			}
			props, err := fragment.DecodeProperties(m.Properties)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fields := pterm.TableData{
				{"FIELD", "VALUE"},
				{"input format", m.InputFormat},
				{"serde", m.SerdeClass},
				{"partitions", partitionLabel(keys)},
				{"filter in fragmenter", strconv.FormatBool(m.FilterInFragmenter)},
				{"delimiter code", m.DelimiterCode},
				{"column types", m.ColumnTypes},
				{"skip header", strconv.Itoa(m.SkipHeader)},
			}
			if err := renderTable(out, fields); err != nil {
				return err
			}

			names := make([]string, 0, len(props))
			for k := range props {
				names = append(names, k)
			}
			sort.Strings(names)
			properties := pterm.TableData{{"PROPERTY", "VALUE"}}
			for _, k := range names {
				properties = append(properties, []string{k, props[k]})
			}
			return renderTable(out, properties)
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.New(ErrReadInput, "failed to read fragment metadata", err).AddContext("input", name)
	}
	// the record ends with an integer, so a trailing newline is never data
	return bytes.TrimRight(data, "\r\n"), nil
}
