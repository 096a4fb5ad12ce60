package fragment

import (
	"strings"
	"testing"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() Metadata {
	return Metadata{
		InputFormat:        TextFileInputFormat,
		SerdeClass:         "org.apache.hadoop.hive.serde2.lazy.LazySimpleSerDe",
		Properties:         "columns = id,name\n",
		PartitionKeys:      NoPartitions,
		FilterInFragmenter: true,
		DelimiterCode:      "44",
		ColumnTypes:        "int:string",
		SkipHeader:         1,
	}
}

func TestEncode(t *testing.T) {
	got := string(Encode(sampleMetadata()))
	want := strings.Join([]string{
		TextFileInputFormat,
		"org.apache.hadoop.hive.serde2.lazy.LazySimpleSerDe",
		"columns = id,name\n",
		"!HNPT!",
		"true",
		"44",
		"int:string",
		"1",
	}, "!HUDD!")
	assert.Equal(t, want, got)
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := map[string]Metadata{
		"sample": sampleMetadata(),
		"empty strings": {
			PartitionKeys: NoPartitions,
		},
		"partitioned": {
			InputFormat:   ORCFileInputFormat,
			SerdeClass:    "org.apache.hadoop.hive.ql.io.orc.OrcSerde",
			PartitionKeys: "year!H1PD!int!H1PD!2024!HPAD!region!H1PD!string!H1PD!eu",
			DelimiterCode: "1",
			ColumnTypes:   "map<string,int>:array<bigint>",
			SkipHeader:    0,
		},
		"negative skip header": {SkipHeader: -3},
	}

	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(Encode(m))
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := string(Encode(sampleMetadata()))
	seven := strings.Join(strings.Split(valid, FieldDelimiter)[:7], FieldDelimiter)

	cases := map[string]string{
		"empty":               "",
		"seven tokens":        seven,
		"nine tokens":         valid + FieldDelimiter + "extra",
		"flag is not bool":    strings.Replace(valid, FieldDelimiter+"true"+FieldDelimiter, FieldDelimiter+"yes"+FieldDelimiter, 1),
		"flag is capitalized": strings.Replace(valid, FieldDelimiter+"true"+FieldDelimiter, FieldDelimiter+"TRUE"+FieldDelimiter, 1),
		"skip header text":    strings.TrimSuffix(valid, "1") + "one",
		"skip header empty":   strings.TrimSuffix(valid, "1"),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, FragmentMalformedMetadata), "got %v", err)
		})
	}
}

func TestDecodeTokenCountMessage(t *testing.T) {
	_, err := Decode([]byte("a!HUDD!b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 8 tokens, but got 2")
}

func TestDecodeCountsResults(t *testing.T) {
	ok := metadataTotal.WithLabelValues(opDecode, resultOK)
	bad := metadataTotal.WithLabelValues(opDecode, resultMalformed)
	okBefore := testutil.ToFloat64(ok)
	badBefore := testutil.ToFloat64(bad)

	_, err := Decode(Encode(sampleMetadata()))
	require.NoError(t, err)
	_, err = Decode([]byte("garbage"))
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(bad))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleMetadata().Validate())

	m := sampleMetadata()
	m.ColumnTypes = "int" + FieldDelimiter + "string"
	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, FragmentInvalidMetadata))
	assert.Equal(t, "column types", errors.GetContext(err)["field"])
}
