package section_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/testsupport"
)

func TestCatalogFixture(t *testing.T) {
	cfg := testsupport.LoadDocument(t, filepath.Join("testdata", "catalog.json"))

	if err := section.Validate(cfg); err != nil {
		t.Fatalf("fixture should validate: %v", err)
	}
	types := section.Types()
	if len(cfg.Sections) != len(types) {
		t.Fatalf("expected %d sections, got %d", len(types), len(cfg.Sections))
	}
	for i, s := range cfg.Sections {
		if s.SectionType() != types[i] {
			t.Fatalf("sections[%d]: want %s, got %s", i, types[i], s.SectionType())
		}
	}

	dangling := section.DanglingAnchors(cfg)
	if len(dangling) != 0 {
		t.Fatalf("expected no dangling anchors, got %+v", dangling)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := section.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := testsupport.DiffDocuments(cfg, again); diff != "" {
		t.Fatalf("document changed across encode (-want +got):\n%s", diff)
	}
}

func TestCatalogFixture_RemovingTargetLeavesDanglingLink(t *testing.T) {
	cfg := testsupport.LoadDocument(t, filepath.Join("testdata", "catalog.json"))
	idx := cfg.Index("contact-1")
	cfg.Sections = append(cfg.Sections[:idx:idx], cfg.Sections[idx+1:]...)

	dangling := section.DanglingAnchors(cfg)
	targets := map[string]int{}
	for _, a := range dangling {
		targets[a.SectionID]++
		if a.Target != "contact-1" {
			t.Fatalf("unexpected target %q", a.Target)
		}
	}
	if targets["hero-1"] != 1 || targets["pricing-1"] != 1 {
		t.Fatalf("expected hero and pricing links reported, got %+v", dangling)
	}
}
