// Package inventory reads the chart inventory TOML file and produces
// single-field edits of it.
//
// The inventory maps a reference key to a table:
//
//	[redis]
//	helm = "https://charts.bitnami.com/bitnami"
//	version = "17.0.0"
//	appVersion = "7.0.4"   # optional
//	chart = "redis"        # optional, defaults to the key
//
// Root-level inline tables (redis = { helm = "...", version = "..." }) are
// accepted as well. A Document is immutable; SetVersion returns new text.
package inventory

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ocf/adelie/internal/common/errs"
)

// Field names within a reference table
const (
	FieldHelm       = "helm"
	FieldVersion    = "version"
	FieldChart      = "chart"
	FieldAppVersion = "appVersion"
)

// Reference is one tracked chart
type Reference struct {
	// Key is the inventory table key. It names the update branch.
	Key string
	// Chart is the name looked up in the repository index
	Chart string
	// RepoURL is the chart repository base URL
	RepoURL string
	// Version is the pinned chart version
	Version string
	// AppVersion is informational and may be empty
	AppVersion string
}

// Skipped is an inventory entry that does not describe a chart reference
type Skipped struct {
	Key    string
	Reason string
}

// Document is a parsed inventory file
type Document struct {
	text    string
	values  map[string]interface{}
	refs    []Reference
	skipped []Skipped
}

// Parse decodes inventory text. Entries without a string helm and version
// are recorded as skipped rather than rejected.
func Parse(text string) (*Document, error) {
	var values map[string]interface{}
	md, err := toml.Decode(text, &values)
	if err != nil {
		return nil, errs.New(errs.KindDecode, "parse inventory", "", err)
	}

	doc := &Document{text: text, values: values}

	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		name := key[0]
		if seen[name] {
			continue
		}
		seen[name] = true

		ref, reason := toReference(name, values[name])
		if reason != "" {
			doc.skipped = append(doc.skipped, Skipped{Key: name, Reason: reason})
			continue
		}
		doc.refs = append(doc.refs, ref)
	}

	return doc, nil
}

func toReference(key string, value interface{}) (Reference, string) {
	table, ok := value.(map[string]interface{})
	if !ok {
		return Reference{}, "not a table"
	}

	repoURL, ok := table[FieldHelm].(string)
	if !ok {
		return Reference{}, fmt.Sprintf("missing string %q field", FieldHelm)
	}
	version, ok := table[FieldVersion].(string)
	if !ok {
		return Reference{}, fmt.Sprintf("missing string %q field", FieldVersion)
	}

	chart, _ := table[FieldChart].(string)
	if chart == "" {
		chart = key
	}
	appVersion, _ := table[FieldAppVersion].(string)

	return Reference{
		Key:        key,
		Chart:      chart,
		RepoURL:    repoURL,
		Version:    version,
		AppVersion: appVersion,
	}, ""
}

// References returns the chart references in file order
func (d *Document) References() []Reference {
	return append([]Reference(nil), d.refs...)
}

// Skipped returns the entries that were not chart references
func (d *Document) Skipped() []Skipped {
	return append([]Skipped(nil), d.skipped...)
}

// Get returns the string value of field in the table at key
func (d *Document) Get(key, field string) (string, bool) {
	table, ok := d.values[key].(map[string]interface{})
	if !ok {
		return "", false
	}
	value, ok := table[field].(string)
	return value, ok
}

// String returns the document text exactly as parsed
func (d *Document) String() string {
	return d.text
}
