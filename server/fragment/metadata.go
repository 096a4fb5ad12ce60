package fragment

import (
	"strconv"
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
)

const (
	// FieldDelimiter separates the fields of an encoded Metadata record
	FieldDelimiter = "!HUDD!"

	metadataFieldCount = 8
)

// Metadata is the per-fragment record the fragmenter hands to readers. The
// field order is the wire order.
type Metadata struct {
	InputFormat        string
	SerdeClass         string
	Properties         string
	PartitionKeys      string
	FilterInFragmenter bool
	DelimiterCode      string
	ColumnTypes        string
	SkipHeader         int
}

// Validate checks that no string field contains the field delimiter, which
// would make the record impossible to decode
func (m Metadata) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"input format", m.InputFormat},
		{"serde class", m.SerdeClass},
		{"properties", m.Properties},
		{"partition keys", m.PartitionKeys},
		{"delimiter code", m.DelimiterCode},
		{"column types", m.ColumnTypes},
	}
	for _, f := range fields {
		if strings.Contains(f.value, FieldDelimiter) {
			return errors.Newf(FragmentInvalidMetadata, "%s contains reserved delimiter %s", f.name, FieldDelimiter).
				AddContext("field", f.name)
		}
	}
	return nil
}

// Encode joins the eight fields with FieldDelimiter
func Encode(m Metadata) []byte {
	s := strings.Join([]string{
		m.InputFormat,
		m.SerdeClass,
		m.Properties,
		m.PartitionKeys,
		strconv.FormatBool(m.FilterInFragmenter),
		m.DelimiterCode,
		m.ColumnTypes,
		strconv.Itoa(m.SkipHeader),
	}, FieldDelimiter)
	metadataTotal.WithLabelValues(opEncode, resultOK).Inc()
	return []byte(s)
}

// Decode parses a record produced by Encode. It requires exactly eight
// fields, a literal true/false flag and a decimal skip-header count.
func Decode(data []byte) (Metadata, error) {
	m, err := decode(data)
	if err != nil {
		metadataTotal.WithLabelValues(opDecode, resultMalformed).Inc()
		return Metadata{}, err
	}
	metadataTotal.WithLabelValues(opDecode, resultOK).Inc()
	return m, nil
}

func decode(data []byte) (Metadata, error) {
	toks := strings.SplitN(string(data), FieldDelimiter, metadataFieldCount)
	if len(toks) != metadataFieldCount {
		return Metadata{}, malformed("fragment metadata expected %d tokens, but got %d", metadataFieldCount, len(toks))
	}

	filterInFragmenter, err := parseFlag(toks[4])
	if err != nil {
		return Metadata{}, err
	}

	// A surplus delimiter lands in the last token and fails here
	skipHeader, err := strconv.Atoi(toks[7])
	if err != nil {
		return Metadata{}, errors.New(FragmentMalformedMetadata, "fragment metadata has an invalid skip header count "+strconv.Quote(toks[7]), err)
	}

	return Metadata{
		InputFormat:        toks[0],
		SerdeClass:         toks[1],
		Properties:         toks[2],
		PartitionKeys:      toks[3],
		FilterInFragmenter: filterInFragmenter,
		DelimiterCode:      toks[5],
		ColumnTypes:        toks[6],
		SkipHeader:         skipHeader,
	}, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, malformed("fragment metadata has an invalid filter flag %q", s)
}
