package fragment

import (
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/magiconair/properties"
)

// EncodeProperties renders a property map as java-properties text with keys
// in sorted order
func EncodeProperties(props map[string]string) (string, error) {
	p := properties.NewProperties()
	p.DisableExpansion = true
	for k, v := range props {
		if _, _, err := p.Set(k, v); err != nil {
			return "", errors.New(FragmentInvalidMetadata, "failed to set property "+k, err)
		}
	}
	p.Sort()

	var b strings.Builder
	if _, err := p.Write(&b, properties.UTF8); err != nil {
		return "", errors.New(FragmentInvalidMetadata, "failed to write properties", err)
	}
	return b.String(), nil
}

// DecodeProperties parses java-properties text. ${} references are kept
// verbatim.
func DecodeProperties(s string) (map[string]string, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes([]byte(s))
	if err != nil {
		return nil, errors.New(FragmentMalformedMetadata, "failed to parse properties", err)
	}
	return p.Map(), nil
}
