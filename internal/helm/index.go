package helm

import (
	"errors"

	"github.com/ocf/adelie/internal/common/errs"
	"gopkg.in/yaml.v3"
)

// errNoEntries is returned for YAML that parses but carries no entries map
var errNoEntries = errors.New("index has no entries")

// Index is a chart repository's index.yaml
type Index struct {
	APIVersion string              `yaml:"apiVersion"`
	Entries    map[string][]Record `yaml:"entries"`
}

// Record is one published chart version. Records keep the upstream's order.
type Record struct {
	Version    string `yaml:"version"`
	AppVersion string `yaml:"appVersion,omitempty"`
}

// decodeIndex parses an index.yaml body; source names it in errors
func decodeIndex(data []byte, source string) (*Index, error) {
	var index Index
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, errs.New(errs.KindDecode, "decode index", source, err)
	}
	if index.Entries == nil {
		return nil, errs.New(errs.KindDecode, "decode index", source, errNoEntries)
	}
	return &index, nil
}
