package vendors

import (
	"strings"
	"testing"
)

func TestRegistry_Valid(t *testing.T) {
	if err := Validate(Registry()); err != nil {
		t.Fatalf("default registry failed validation: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := Definition{DisplayName: "Vendor", SourceName: "Vendor", Strategy: StrategyLink}

	tests := []struct {
		name string
		defs []Definition
		want string
	}{
		{
			"duplicate vendor",
			[]Definition{base, base},
			"duplicate",
		},
		{
			"missing source name",
			[]Definition{{DisplayName: "X", Strategy: StrategyLink}},
			"missing",
		},
		{
			"crawl without extractor",
			[]Definition{{DisplayName: "X", SourceName: "X", Strategy: StrategyCrawl, ReadySelector: "table"}},
			"no extractor",
		},
		{
			"crawl without selector",
			[]Definition{{DisplayName: "X", SourceName: "X", Strategy: StrategyCrawl, Extract: extractBLDPharm}},
			"no readiness selector",
		},
		{
			"bad selector",
			[]Definition{{DisplayName: "X", SourceName: "X", Strategy: StrategyCrawl, Extract: extractBLDPharm, ReadySelector: "td[["}},
			"readiness selector",
		},
		{
			"unknown strategy",
			[]Definition{{DisplayName: "X", SourceName: "X", Strategy: "rpc"}},
			"unknown strategy",
		},
		{
			"template without verb",
			[]Definition{{DisplayName: "X", SourceName: "X", Strategy: StrategyLink, SearchURL: "https://example.com/search"}},
			"%s",
		},
	}
	for _, tt := range tests {
		err := Validate(tt.defs)
		if err == nil {
			t.Errorf("%s: Validate accepted invalid registry", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestSynthesizeSearchURL(t *testing.T) {
	d := Definition{SearchURL: "https://example.com/search?q=%s"}
	got, ok := d.SynthesizeSearchURL("CC(=O)Oc1ccccc1C(=O)O")
	if !ok {
		t.Fatal("SynthesizeSearchURL reported no template")
	}
	want := "https://example.com/search?q=CC%28%3DO%29Oc1ccccc1C%28%3DO%29O"
	if got != want {
		t.Errorf("SynthesizeSearchURL = %q, want %q", got, want)
	}

	if _, ok := (Definition{}).SynthesizeSearchURL("x"); ok {
		t.Error("SynthesizeSearchURL invented a URL without a template")
	}
}

func TestMatchesSource(t *testing.T) {
	d := Definition{SourceName: "BLD Pharm"}
	for _, name := range []string{"BLD Pharm", "bld pharm", "  BLD PHARM  "} {
		if !d.MatchesSource(name) {
			t.Errorf("MatchesSource(%q) = false, want true", name)
		}
	}
	if d.MatchesSource("BLD Pharma") {
		t.Error("MatchesSource matched a different vendor")
	}
}
