// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sections/pkg/section"
)

// LoadDocument reads a JSON fixture into a SiteConfig, failing the test on
// error.
func LoadDocument(t testing.TB, path string) section.SiteConfig {
	t.Helper()

	cfg, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return cfg
}

// LoadDocumentFromPath is LoadDocument for setup code without a testing.TB.
func LoadDocumentFromPath(path string) (section.SiteConfig, error) {
	if path == "" {
		return section.SiteConfig{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	cfg, err := section.Decode(data)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("testsupport: decode document: %w", err)
	}
	return cfg, nil
}

// SampleSite is a small landing page: header linking to the contact
// section, hero, contact and footer.
func SampleSite() section.SiteConfig {
	return section.SiteConfig{
		Theme: section.Theme{Name: "base"},
		Meta:  section.Meta{Title: "Acme", Lang: "en"},
		Sections: []section.Section{
			&section.Header{
				Base:  section.Base{ID: "header-1", Type: section.TypeHeader},
				Title: "Acme",
				Links: []section.Link{{Label: "Contact", Href: "/#contact-1"}},
			},
			&section.Hero{Base: section.Base{ID: "hero-1", Type: section.TypeHero}, Title: "Welcome"},
			&section.Contact{Base: section.Base{ID: "contact-1", Type: section.TypeContact}, Title: "Write us"},
			&section.Footer{Base: section.Base{ID: "footer-1", Type: section.TypeFooter}, Copyright: "Acme"},
		},
	}
}

// DiffDocuments returns a readable diff of two documents, "" when equal.
func DiffDocuments(want, got section.SiteConfig) string {
	return cmp.Diff(want, got)
}
