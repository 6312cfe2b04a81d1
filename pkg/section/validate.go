package section

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingID flags a section without an id.
	ErrMissingID = errors.New("section: missing id")
	// ErrDuplicateID flags two sections sharing an id.
	ErrDuplicateID = errors.New("section: duplicate id")
	// ErrTagMismatch flags a Base.Type that disagrees with the Go variant.
	ErrTagMismatch = errors.New("section: type tag does not match variant")
)

// Validate checks the document invariants the editing flow relies on but does
// not enforce. The result joins every violation found; nil means clean.
func Validate(cfg SiteConfig) error {
	var errs []error
	seen := make(map[string]int, len(cfg.Sections))
	for idx, s := range cfg.Sections {
		if s == nil {
			errs = append(errs, fmt.Errorf("section: sections[%d] is nil", idx))
			continue
		}
		base := s.Common()
		if strings.TrimSpace(base.ID) == "" {
			errs = append(errs, fmt.Errorf("%w at sections[%d]", ErrMissingID, idx))
		} else if first, ok := seen[base.ID]; ok {
			errs = append(errs, fmt.Errorf("%w %q at sections[%d] and sections[%d]", ErrDuplicateID, base.ID, first, idx))
		} else {
			seen[base.ID] = idx
		}
		if base.Type != s.SectionType() {
			errs = append(errs, fmt.Errorf("%w at sections[%d]: %q vs %q", ErrTagMismatch, idx, base.Type, s.SectionType()))
		}
	}
	return errors.Join(errs...)
}

// Normalize returns a copy with tags stamped from the variants and nil list
// fields replaced by empty ones. Stores apply it before echoing a document back.
func Normalize(cfg SiteConfig) SiteConfig {
	out := cfg.Clone()
	if out.Sections == nil {
		out.Sections = []Section{}
	}
	for _, s := range out.Sections {
		if s == nil {
			continue
		}
		base := s.Common()
		base.Type = s.SectionType()
		base.ID = strings.TrimSpace(base.ID)
		fillLists(s)
	}
	return out
}

func fillLists(s Section) {
	switch v := s.(type) {
	case *Header:
		v.Links = nonNil(v.Links)
	case *Features:
		v.Features = nonNil(v.Features)
	case *Footer:
		v.Links = nonNil(v.Links)
	case *Testimonials:
		v.Items = nonNil(v.Items)
	case *Stats:
		v.Items = nonNil(v.Items)
	case *Skills:
		v.Items = nonNil(v.Items)
	case *Pricing:
		v.Plans = nonNil(v.Plans)
		for i := range v.Plans {
			v.Plans[i].Features = nonNil(v.Plans[i].Features)
		}
	case *Share:
		v.Networks = nonNil(v.Networks)
	case *Partners:
		v.Logos = nonNil(v.Logos)
	case *Instagram:
		v.Posts = nonNil(v.Posts)
	case *Gallery:
		v.Images = nonNil(v.Images)
	case *Socials:
		v.Links = nonNil(v.Links)
	case *ProductListings:
		v.Products = nonNil(v.Products)
		for i := range v.Products {
			p := &v.Products[i]
			p.Images = nonNil(p.Images)
			p.Variants = nonNil(p.Variants)
			p.Specs = nonNil(p.Specs)
		}
	case *Persons:
		v.People = nonNil(v.People)
		for i := range v.People {
			v.People[i].Links = nonNil(v.People[i].Links)
		}
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// Anchor describes an internal link found in a section.
type Anchor struct {
	SectionID string
	Label     string
	Target    string
}

// AnchorTarget extracts the section id from an internal "/#id" or "#id" link.
func AnchorTarget(href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(trimmed, "/#"):
		trimmed = trimmed[2:]
	case strings.HasPrefix(trimmed, "#"):
		trimmed = trimmed[1:]
	default:
		return "", false
	}
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// DanglingAnchors lists internal links whose target id is not in the
// document. Deleting a section never rewrites links, so this is a report only.
func DanglingAnchors(cfg SiteConfig) []Anchor {
	ids := make(map[string]struct{}, len(cfg.Sections))
	for _, s := range cfg.Sections {
		ids[ID(s)] = struct{}{}
	}

	var out []Anchor
	for _, s := range cfg.Sections {
		for _, link := range Links(s) {
			target, ok := AnchorTarget(link.Href)
			if !ok {
				continue
			}
			if _, exists := ids[target]; exists {
				continue
			}
			out = append(out, Anchor{SectionID: ID(s), Label: link.Label, Target: target})
		}
	}
	return out
}

// Links returns every navigation link carried by a section.
func Links(s Section) []Link {
	switch v := s.(type) {
	case *Header:
		return append(append([]Link(nil), v.Links...), v.CTA)
	case *Footer:
		return append([]Link(nil), v.Links...)
	case *Hero:
		return []Link{v.CTA, v.SecondaryCTA}
	case *CTA:
		return []Link{v.Button}
	case *Pricing:
		out := make([]Link, 0, len(v.Plans))
		for _, plan := range v.Plans {
			out = append(out, plan.CTA)
		}
		return out
	case *Persons:
		var out []Link
		for _, person := range v.People {
			out = append(out, person.Links...)
		}
		return out
	default:
		return nil
	}
}
