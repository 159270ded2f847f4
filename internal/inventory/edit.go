package inventory

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ocf/adelie/internal/common/errs"
	"github.com/pelletier/go-toml/v2/unstable"
)

var (
	errNoVersionField = errors.New("no editable string version field")
	errEditMismatch   = errors.New("edited document differs beyond the version field")
)

// SetVersion returns the document text with the version of key replaced.
// Only the value token changes; its quote style, surrounding whitespace,
// comments and every other byte are kept. The result is decoded again and
// rejected unless exactly that one field differs.
func (d *Document) SetVersion(key, version string) (string, error) {
	start, end, ok := findVersionSpan(d.text, key)
	if !ok {
		return "", errs.New(errs.KindDecode, "set version", key, errNoVersionField)
	}

	quote := d.text[start]
	text := d.text[:start] + quoteValue(version, quote) + d.text[end:]

	if err := d.verifyEdit(text, key, version); err != nil {
		return "", errs.New(errs.KindDecode, "set version", key, err)
	}
	return text, nil
}

// verifyEdit checks that text decodes to the current values with only
// key.version changed
func (d *Document) verifyEdit(text, key, version string) error {
	edited, err := Parse(text)
	if err != nil {
		return err
	}

	want := make(map[string]interface{}, len(d.values))
	for k, v := range d.values {
		want[k] = v
	}
	source, _ := d.values[key].(map[string]interface{})
	table := make(map[string]interface{}, len(source))
	for k, v := range source {
		table[k] = v
	}
	table[FieldVersion] = version
	want[key] = table

	if !reflect.DeepEqual(edited.values, want) {
		return errEditMismatch
	}
	return nil
}

// findVersionSpan locates the string token holding key.version. Tables,
// dotted keys and inline tables are followed; array-of-tables contents are
// not editable. Returned offsets include the quotes.
func findVersionSpan(text, key string) (int, int, bool) {
	target := []string{key, FieldVersion}

	p := unstable.Parser{}
	p.Reset([]byte(text))

	var table []string
	inArray := false

	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			table, inArray = keyPath(expr.Key()), false
		case unstable.ArrayTable:
			table, inArray = nil, true
		case unstable.KeyValue:
			if inArray {
				continue
			}
			if value, ok := findValue(expr, table, target); ok {
				if value.Kind != unstable.String {
					return 0, 0, false
				}
				start := int(value.Raw.Offset)
				return start, start + int(value.Raw.Length), true
			}
		}
	}

	return 0, 0, false
}

// findValue returns the value of kv, or of a key-value nested in its inline
// tables, whose full path under prefix equals target
func findValue(kv *unstable.Node, prefix, target []string) (*unstable.Node, bool) {
	path := append(append([]string{}, prefix...), keyPath(kv.Key())...)
	value := kv.Value()

	if equalPath(path, target) {
		return value, true
	}
	if value.Kind != unstable.InlineTable || len(path) >= len(target) || !equalPath(path, target[:len(path)]) {
		return nil, false
	}

	children := value.Children()
	for children.Next() {
		if found, ok := findValue(children.Node(), path, target); ok {
			return found, true
		}
	}
	return nil, false
}

func keyPath(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// quoteValue renders version in the given quote style. Literal strings
// cannot hold a single quote, so those fall back to a basic string.
func quoteValue(version string, quote byte) string {
	if quote == '\'' && !strings.ContainsAny(version, "'\n\r") {
		return "'" + version + "'"
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + replacer.Replace(version) + `"`
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
