package inventory

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/ocf/adelie/internal/common/errs"
)

const sampleInventory = `# Chart versions deployed to the cluster.

[redis]
helm = "https://charts.bitnami.com/bitnami"
version = "17.0.0"   # pinned after the 16.x migration
appVersion = "7.0.4"

[grafana]
helm = "https://grafana.github.io/helm-charts"
chart = "grafana"
version = '6.50.0'

[broken]
helm = "https://example.com/charts"

["cert-manager"]
helm = "https://charts.jetstack.io"
version = "v1.12.0"
`

func TestParseReferences(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	refs := doc.References()
	if len(refs) != 3 {
		t.Fatalf("expected 3 references, got %d: %+v", len(refs), refs)
	}

	want := []Reference{
		{Key: "redis", Chart: "redis", RepoURL: "https://charts.bitnami.com/bitnami", Version: "17.0.0", AppVersion: "7.0.4"},
		{Key: "grafana", Chart: "grafana", RepoURL: "https://grafana.github.io/helm-charts", Version: "6.50.0"},
		{Key: "cert-manager", Chart: "cert-manager", RepoURL: "https://charts.jetstack.io", Version: "v1.12.0"},
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("reference %d = %+v, want %+v", i, refs[i], want[i])
		}
	}

	skipped := doc.Skipped()
	if len(skipped) != 1 || skipped[0].Key != "broken" {
		t.Errorf("expected broken to be skipped, got %+v", skipped)
	}
	if doc.String() != sampleInventory {
		t.Error("String() should return the original text")
	}
}

func TestParseChartOverride(t *testing.T) {
	doc, err := Parse("[cache]\nhelm = \"https://charts.example.com\"\nchart = \"redis\"\nversion = \"1.0.0\"\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	refs := doc.References()
	if len(refs) != 1 || refs[0].Key != "cache" || refs[0].Chart != "redis" {
		t.Errorf("unexpected references %+v", refs)
	}
}

func TestParseSkipsNonStringFields(t *testing.T) {
	doc, err := Parse(`
title = "inventory"

[numeric]
helm = "https://example.com"
version = 3
`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.References()) != 0 {
		t.Errorf("expected no references, got %+v", doc.References())
	}
	if len(doc.Skipped()) != 2 {
		t.Errorf("expected 2 skipped entries, got %+v", doc.Skipped())
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("[redis\nversion = ")
	if !errors.Is(err, errs.ErrDecode) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if v, ok := doc.Get("redis", "appVersion"); !ok || v != "7.0.4" {
		t.Errorf("Get(redis, appVersion) = %q, %v", v, ok)
	}
	if _, ok := doc.Get("redis", "missing"); ok {
		t.Error("expected missing field to report false")
	}
	if _, ok := doc.Get("absent", "version"); ok {
		t.Error("expected missing key to report false")
	}
}

func TestSetVersionSection(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("redis", "17.0.5")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	want := strings.Replace(sampleInventory, `version = "17.0.0"`, `version = "17.0.5"`, 1)
	if text != want {
		t.Errorf("unexpected edit:\n%s", text)
	}
	if doc.String() != sampleInventory {
		t.Error("SetVersion must not modify the document")
	}
}

func TestSetVersionPreservesQuoteStyle(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("grafana", "6.51.0")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if !strings.Contains(text, "version = '6.51.0'") {
		t.Errorf("literal quotes not kept:\n%s", text)
	}
}

func TestSetVersionQuotedKey(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("cert-manager", "1.13.0")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if !strings.HasSuffix(text, "version = \"1.13.0\"\n") {
		t.Errorf("unexpected edit:\n%s", text)
	}
}

func TestSetVersionInlineTable(t *testing.T) {
	base := `redis = { helm = "https://charts.example.com", tags = ["a", "b,c"], version = "17.0.0" }
postgresql = { helm = "https://charts.example.com", version = "12.0.0" }
`
	doc, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("redis", "17.0.5")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	want := strings.Replace(base, `version = "17.0.0"`, `version = "17.0.5"`, 1)
	if text != want {
		t.Errorf("unexpected edit:\n%s", text)
	}
}

func TestSetVersionDottedKey(t *testing.T) {
	base := "redis.helm = \"https://charts.example.com\"\nredis.version = \"17.0.0\"\n"
	doc, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("redis", "17.0.5")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if text != "redis.helm = \"https://charts.example.com\"\nredis.version = \"17.0.5\"\n" {
		t.Errorf("unexpected edit:\n%s", text)
	}
}

func TestSetVersionIgnoresLookalikes(t *testing.T) {
	base := `[redis.metadata]
version = "0.0.1"

[redis]
helm = "https://charts.example.com"
# version = "16.0.0"
version = "17.0.0"
`
	doc, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("redis", "17.0.5")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if !strings.Contains(text, `version = "0.0.1"`) || !strings.Contains(text, `# version = "16.0.0"`) {
		t.Errorf("unrelated lines changed:\n%s", text)
	}
	if !strings.Contains(text, "version = \"17.0.5\"\n") {
		t.Errorf("target not changed:\n%s", text)
	}
}

func TestSetVersionEscapes(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("grafana", `6.51.0'"x`)
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	edited, err := Parse(text)
	if err != nil {
		t.Fatalf("edited text does not parse: %v", err)
	}
	if v, _ := edited.Get("grafana", "version"); v != `6.51.0'"x` {
		t.Errorf("version = %q", v)
	}
}

func TestSetVersionErrors(t *testing.T) {
	doc, err := Parse(sampleInventory)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := doc.SetVersion("absent", "2.0.0"); !errors.Is(err, errs.ErrDecode) {
		t.Errorf("SetVersion(absent) expected decode error, got %v", err)
	}
}

func TestSetVersionMultilineValue(t *testing.T) {
	doc, err := Parse(`
[multiline]
helm = "https://example.com"
version = """
1.0.0"""
`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("multiline", "2.0.0")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if !strings.Contains(text, "version = \"2.0.0\"\n") || strings.Contains(text, "1.0.0") {
		t.Errorf("unexpected edit:\n%s", text)
	}
}

// TestSetVersionIgnoresHeadersInStrings tests that a table header inside a
// multi-line string does not change the table the edit lands in
func TestSetVersionIgnoresHeadersInStrings(t *testing.T) {
	base := `[notes]
helm = "https://charts.example.com"
version = "2"
text = """
[redis]
version = "9"
"""

[redis]
helm = "https://charts.example.com"
version = "1.0.0"
`
	doc, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n := len(doc.References()); n != 2 {
		t.Fatalf("expected 2 references, got %d", n)
	}

	text, err := doc.SetVersion("redis", "2.0.0")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	want := strings.Replace(base, "version = \"1.0.0\"", "version = \"2.0.0\"", 1)
	if text != want {
		t.Errorf("unexpected edit:\n%s", text)
	}
}

func TestSetVersionCRLF(t *testing.T) {
	base := "[redis] # cache\r\nhelm = \"https://charts.example.com\"\r\nversion = '17.0.0'\r\n"
	doc, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text, err := doc.SetVersion("redis", "17.0.5")
	if err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if want := strings.Replace(base, "'17.0.0'", "'17.0.5'", 1); text != want {
		t.Errorf("unexpected edit: %q", text)
	}
}

func genVersion() gopter.Gen {
	return gen.RegexMatch(`^v?[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{1,2}(-rc[0-9])?$`)
}

// renderInventory writes one entry per version, alternating section and
// inline table styles
func renderInventory(versions []string, inline bool) string {
	var b strings.Builder
	var sections []string
	for i, v := range versions {
		key := fmt.Sprintf("chart-%d", i)
		if inline && i%2 == 0 {
			fmt.Fprintf(&b, "%s = { helm = \"https://charts.example.com/%d\", version = \"%s\", appVersion = \"%d.0\" }\n", key, i, v, i)
			continue
		}
		sections = append(sections, fmt.Sprintf("\n[%s]\nhelm = \"https://charts.example.com/%d\"\nversion = \"%s\"\nappVersion = \"%d.0\"\n", key, i, v, i))
	}
	for _, s := range sections {
		b.WriteString(s)
	}
	return b.String()
}

// TestSetVersionRoundTrip tests that a single version edit leaves every other
// field of every entry unchanged
func TestSetVersionRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("only the target version changes", prop.ForAll(
		func(versions []string, pick int, newVersion string, inline bool) bool {
			pick %= len(versions)
			doc, err := Parse(renderInventory(versions, inline))
			if err != nil {
				t.Logf("Parse failed: %v", err)
				return false
			}

			target := fmt.Sprintf("chart-%d", pick)
			text, err := doc.SetVersion(target, newVersion)
			if err != nil {
				t.Logf("SetVersion failed: %v", err)
				return false
			}

			edited, err := Parse(text)
			if err != nil {
				return false
			}
			for _, ref := range doc.References() {
				for _, field := range []string{FieldHelm, FieldVersion, FieldAppVersion} {
					got, _ := edited.Get(ref.Key, field)
					want, _ := doc.Get(ref.Key, field)
					if ref.Key == target && field == FieldVersion {
						want = newVersion
					}
					if got != want {
						return false
					}
				}
			}
			return len(text)-len(doc.String()) == len(newVersion)-len(versions[pick])
		},
		gen.SliceOfN(5, genVersion()),
		gen.IntRange(0, 4),
		genVersion(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
