package fragment

import (
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
)

const (
	// NoPartitions marks a table without partition keys
	NoPartitions = "!HNPT!"
	// partitionFieldDelimiter separates name, type and value of one key
	partitionFieldDelimiter = "!H1PD!"
	// partitionKeyDelimiter separates keys
	partitionKeyDelimiter = "!HPAD!"
)

// PartitionKey is one partition column with the partition's value for it
type PartitionKey struct {
	Name  string
	Type  string
	Value string
}

// ValidatePartitionKeys rejects names, types and values containing a
// partition delimiter, which EncodePartitionKeys could not round-trip
func ValidatePartitionKeys(keys []PartitionKey) error {
	for i, k := range keys {
		for _, v := range []string{k.Name, k.Type, k.Value} {
			for _, delim := range []string{partitionFieldDelimiter, partitionKeyDelimiter} {
				if strings.Contains(v, delim) {
					return errors.Newf(FragmentInvalidMetadata, "partition key %d contains reserved delimiter %s", i, delim).
						AddContext("partition_key", k.Name)
				}
			}
		}
	}
	return nil
}

// EncodePartitionKeys renders keys as name!H1PD!type!H1PD!value joined by
// !HPAD!, or NoPartitions when there are none
func EncodePartitionKeys(keys []PartitionKey) string {
	if len(keys) == 0 {
		return NoPartitions
	}
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(partitionKeyDelimiter)
		}
		b.WriteString(k.Name)
		b.WriteString(partitionFieldDelimiter)
		b.WriteString(k.Type)
		b.WriteString(partitionFieldDelimiter)
		b.WriteString(k.Value)
	}
	return b.String()
}

// DecodePartitionKeys is the inverse of EncodePartitionKeys
func DecodePartitionKeys(s string) ([]PartitionKey, error) {
	if s == NoPartitions {
		return []PartitionKey{}, nil
	}
	if s == "" {
		return nil, malformed("partition keys are empty")
	}

	levels := strings.Split(s, partitionKeyDelimiter)
	keys := make([]PartitionKey, 0, len(levels))
	for i, level := range levels {
		toks := strings.Split(level, partitionFieldDelimiter)
		if len(toks) != 3 {
			return nil, malformed("partition key %d expected 3 tokens, but got %d", i, len(toks))
		}
		keys = append(keys, PartitionKey{Name: toks[0], Type: toks[1], Value: toks[2]})
	}
	return keys, nil
}
