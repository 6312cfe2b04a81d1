package section

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDocument = `{
  "theme": {"name": "acme", "variant": "dark"},
  "meta": {"title": "Acme"},
  "sections": [
    {"id": "header-1", "type": "header", "title": "Acme", "links": [{"label": "About", "href": "/#about-1"}], "cta": {"label": "Buy", "href": "/#products-1"}},
    {"id": "about-1", "type": "about", "title": "About us", "body": "We *build* things", "visible": false},
    {"id": "products-1", "type": "productListings", "title": "Shop", "currency": "USD", "products": [
      {"id": "p1", "name": "Mug", "images": ["configs/acme/assets/mug.png"], "price": 12.5, "inventory": 3, "variants": [{"id": "v1", "name": "Blue", "price": 13, "inventory": 1}], "specs": [{"label": "Size", "value": "M"}]}
    ]}
  ]
}`

func TestDecode_DispatchesOnTag(t *testing.T) {
	cfg, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cfg.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(cfg.Sections))
	}

	header, ok := cfg.Sections[0].(*Header)
	if !ok {
		t.Fatalf("expected *Header, got %T", cfg.Sections[0])
	}
	if header.Links[0].Href != "/#about-1" {
		t.Fatalf("unexpected header link: %+v", header.Links[0])
	}

	about, ok := cfg.Sections[1].(*About)
	if !ok {
		t.Fatalf("expected *About, got %T", cfg.Sections[1])
	}
	if IsVisible(about) {
		t.Fatalf("expected about to be hidden")
	}

	products := cfg.Sections[2].(*ProductListings)
	if got := products.Products[0].Variants[0].Name; got != "Blue" {
		t.Fatalf("variant name mismatch: %q", got)
	}
}

func TestDecode_UnknownTypeFails(t *testing.T) {
	_, err := Decode([]byte(`{"sections":[{"id":"x","type":"carousel"}]}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestMarshal_RoundTripPreservesOrderAndContent(t *testing.T) {
	cfg, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_StampsTagFromVariant(t *testing.T) {
	hero := &Hero{Base: Base{ID: "hero-1", Type: "bogus"}, Title: "Hi"}
	data, err := json.Marshal(SiteConfig{Sections: []Section{hero}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"type":"hero"`) {
		t.Fatalf("expected stamped tag, got %s", data)
	}
	if hero.Type != "bogus" {
		t.Fatalf("marshal must not mutate the section")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	cfg, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	clone := cfg.Clone()

	clone.Sections[0].(*Header).Links[0].Label = "Changed"
	clone.Sections[1].Common().Visible = Bool(true)
	clone.Sections[2].(*ProductListings).Products[0].Variants[0].Name = "Red"
	clone.Sections = clone.Sections[:1]

	if cfg.Sections[0].(*Header).Links[0].Label != "About" {
		t.Fatalf("header link leaked through clone")
	}
	if IsVisible(cfg.Sections[1]) {
		t.Fatalf("visible flag leaked through clone")
	}
	if cfg.Sections[2].(*ProductListings).Products[0].Variants[0].Name != "Blue" {
		t.Fatalf("product variant leaked through clone")
	}
	if len(cfg.Sections) != 3 {
		t.Fatalf("section slice leaked through clone")
	}
}

func TestZero_CoversCatalog(t *testing.T) {
	for _, typ := range Types() {
		s, ok := Zero(typ)
		if !ok {
			t.Fatalf("no variant for %q", typ)
		}
		if s.SectionType() != typ || s.Common().Type != typ {
			t.Fatalf("tag mismatch for %q: %q/%q", typ, s.SectionType(), s.Common().Type)
		}
		if _, ok := s.Clone().(interface{ SectionType() Type }); !ok {
			t.Fatalf("clone of %q lost its variant", typ)
		}
	}
	if _, ok := Zero("carousel"); ok {
		t.Fatalf("expected unknown type to be rejected")
	}
}

func TestValidate_ReportsDuplicatesAndDrift(t *testing.T) {
	cfg := SiteConfig{Sections: []Section{
		&Hero{Base: Base{ID: "a", Type: TypeHero}},
		&CTA{Base: Base{ID: "a", Type: TypeCTA}},
		&About{Base: Base{ID: "", Type: TypeHero}},
	}}
	err := Validate(cfg)
	for _, want := range []error{ErrDuplicateID, ErrMissingID, ErrTagMismatch} {
		if !errors.Is(err, want) {
			t.Fatalf("expected %v in %v", want, err)
		}
	}

	if err := Validate(SiteConfig{Sections: []Section{&Hero{Base: Base{ID: "a", Type: TypeHero}}}}); err != nil {
		t.Fatalf("expected clean document, got %v", err)
	}
}

func TestDanglingAnchors(t *testing.T) {
	cfg, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := DanglingAnchors(cfg); len(got) != 0 {
		t.Fatalf("expected no dangling anchors, got %+v", got)
	}

	cfg.Sections = cfg.Sections[:2]
	got := DanglingAnchors(cfg)
	want := []Anchor{{SectionID: "header-1", Label: "Buy", Target: "products-1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dangling anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_FillsListsAndTags(t *testing.T) {
	cfg := SiteConfig{Sections: []Section{
		&Gallery{Base: Base{ID: " g1 ", Type: "x"}},
	}}
	out := Normalize(cfg)
	gallery := out.Sections[0].(*Gallery)
	if gallery.Images == nil {
		t.Fatalf("expected images to be non-nil")
	}
	if gallery.ID != "g1" || gallery.Type != TypeGallery {
		t.Fatalf("unexpected base after normalize: %+v", gallery.Base)
	}
	if cfg.Sections[0].Common().ID != " g1 " {
		t.Fatalf("normalize must not mutate its input")
	}
}
