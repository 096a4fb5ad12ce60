package fragment

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/metastore"
)

// Input format classes the input-format fragmenter can serve
const (
	RCFileInputFormat   = "org.apache.hadoop.hive.ql.io.RCFileInputFormat"
	TextFileInputFormat = "org.apache.hadoop.mapred.TextInputFormat"
	ORCFileInputFormat  = "org.apache.hadoop.hive.ql.io.orc.OrcInputFormat"
)

// Serde parameters and table properties read while building metadata
const (
	FieldDelimParam          = "field.delim"
	SerializationFormatParam = "serialization.format"
	ColumnsProperty          = "columns"
	ColumnTypesProperty      = "columns.types"
	SkipHeaderProperty       = "skip.header.line.count"

	// DefaultDelimiterCode is ','
	DefaultDelimiterCode = 44
)

var supportedInputFormats = []struct {
	class string
	name  string
}{
	{RCFileInputFormat, "RC_FILE_INPUT_FORMAT"},
	{TextFileInputFormat, "TEXT_FILE_INPUT_FORMAT"},
	{ORCFileInputFormat, "ORC_FILE_INPUT_FORMAT"},
}

// AssertFileType maps a supported input format class to its short name
func AssertFileType(className string) (string, error) {
	names := make([]string, 0, len(supportedInputFormats))
	for _, f := range supportedInputFormats {
		if f.class == className {
			return f.name, nil
		}
		names = append(names, f.name)
	}
	return "", errors.Newf(errors.CommonUnsupported,
		"input format fragmenter does not yet support %s. Supported InputFormat are [%s]",
		className, strings.Join(names, ", ")).
		AddContext("input_format", className)
}

// DelimiterCode returns the field delimiter of a storage descriptor as a
// character code: field.delim first, then serialization.format, then ','
func DelimiterCode(serdeParams map[string]string) (int, error) {
	if delim, ok := serdeParams[FieldDelimParam]; ok && delim != "" {
		r, _ := utf8.DecodeRuneInString(delim)
		return int(r), nil
	}
	if format, ok := serdeParams[SerializationFormatParam]; ok {
		code, err := strconv.Atoi(format)
		if err != nil {
			return 0, errors.New(FragmentInvalidDelimiter, "serialization.format is not a character code: "+strconv.Quote(format), err)
		}
		return code, nil
	}
	return DefaultDelimiterCode, nil
}

// TablePartition is a table together with one of its partitions. Partition
// is nil for an unpartitioned table.
type TablePartition struct {
	Table     *metastore.TableDefinition
	Partition *metastore.PartitionDefinition
}

// Location is the directory holding the partition's data files
func (tp TablePartition) Location() string {
	if tp.Partition != nil && tp.Partition.Location != "" {
		return tp.Partition.Location
	}
	return tp.Table.Location
}

func (tp TablePartition) inputFormat() string {
	if tp.Partition != nil && tp.Partition.InputFormat != "" {
		return tp.Partition.InputFormat
	}
	return tp.Table.InputFormat
}

func (tp TablePartition) serdeLib() string {
	if tp.Partition != nil && tp.Partition.SerdeLib != "" {
		return tp.Partition.SerdeLib
	}
	return tp.Table.SerdeLib
}

func (tp TablePartition) serdeParams() map[string]string {
	if tp.Partition != nil && tp.Partition.SerdeParams != nil {
		return tp.Partition.SerdeParams
	}
	return tp.Table.SerdeParams
}

// Properties is the schema property set readers use: table parameters, serde
// parameters and the column names and types
func (tp TablePartition) Properties() map[string]string {
	props := make(map[string]string, len(tp.Table.Params)+len(tp.serdeParams())+4)
	for k, v := range tp.Table.Params {
		props[k] = v
	}
	for k, v := range tp.serdeParams() {
		props[k] = v
	}

	names := make([]string, len(tp.Table.Columns))
	types := make([]string, len(tp.Table.Columns))
	for i, c := range tp.Table.Columns {
		names[i] = c.Name
		types[i] = c.Type
	}
	props[ColumnsProperty] = strings.Join(names, ",")
	props[ColumnTypesProperty] = strings.Join(types, ":")
	if lib := tp.serdeLib(); lib != "" {
		props["serialization.lib"] = lib
	}
	if loc := tp.Location(); loc != "" {
		props["location"] = loc
	}
	return props
}

// PartitionKeys pairs the table's partition columns with the partition values
func (tp TablePartition) PartitionKeys() []PartitionKey {
	if tp.Partition == nil {
		return nil
	}
	n := len(tp.Table.PartitionKeys)
	if len(tp.Partition.Values) < n {
		n = len(tp.Partition.Values)
	}
	keys := make([]PartitionKey, n)
	for i := 0; i < n; i++ {
		col := tp.Table.PartitionKeys[i]
		keys[i] = PartitionKey{Name: col.Name, Type: col.Type, Value: tp.Partition.Values[i]}
	}
	return keys
}

// MakeMetadata builds the fragment record for a table partition. With
// assertFormat the input format must be one AssertFileType accepts.
func MakeMetadata(tp TablePartition, filterInFragmenter, assertFormat bool) (Metadata, error) {
	inputFormat := tp.inputFormat()
	if assertFormat {
		if _, err := AssertFileType(inputFormat); err != nil {
			return Metadata{}, err
		}
	}

	props := tp.Properties()
	propsText, err := EncodeProperties(props)
	if err != nil {
		return Metadata{}, err
	}

	delimiter, err := DelimiterCode(tp.serdeParams())
	if err != nil {
		return Metadata{}, err
	}

	skipHeader := 0
	if raw, ok := props[SkipHeaderProperty]; ok {
		skipHeader, err = strconv.Atoi(raw)
		if err != nil {
			return Metadata{}, errors.New(FragmentInvalidMetadata, "skip.header.line.count is not an integer: "+strconv.Quote(raw), err)
		}
	}

	keys := tp.PartitionKeys()
	if err := ValidatePartitionKeys(keys); err != nil {
		return Metadata{}, err
	}

	m := Metadata{
		InputFormat:        inputFormat,
		SerdeClass:         tp.serdeLib(),
		Properties:         propsText,
		PartitionKeys:      EncodePartitionKeys(keys),
		FilterInFragmenter: filterInFragmenter,
		DelimiterCode:      strconv.Itoa(delimiter),
		ColumnTypes:        props[ColumnTypesProperty],
		SkipHeader:         skipHeader,
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}
