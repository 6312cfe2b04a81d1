package section

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownType is returned when a document carries a tag outside the catalog.
var ErrUnknownType = errors.New("section: unknown section type")

// Theme selects the visual theme of a site. Tokens override manifest tokens.
type Theme struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
}

// Meta carries page-level metadata.
type Meta struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Favicon     string   `json:"favicon,omitempty"`
	Image       string   `json:"image,omitempty"`
	Lang        string   `json:"lang,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// SiteConfig is the whole page document. Section order is render order.
type SiteConfig struct {
	Theme    Theme     `json:"theme"`
	Meta     Meta      `json:"meta"`
	Sections []Section `json:"sections"`
}

// Clone returns a structural deep copy of the document.
func (c SiteConfig) Clone() SiteConfig {
	out := SiteConfig{
		Theme: Theme{
			Name:    c.Theme.Name,
			Variant: c.Theme.Variant,
			Tokens:  maps.Clone(c.Theme.Tokens),
		},
		Meta: c.Meta,
	}
	out.Meta.Keywords = slices.Clone(c.Meta.Keywords)
	if c.Sections != nil {
		out.Sections = make([]Section, len(c.Sections))
		for i, s := range c.Sections {
			if s != nil {
				out.Sections[i] = s.Clone()
			}
		}
	}
	return out
}

// Index returns the position of the section with the given id, or -1.
func (c SiteConfig) Index(id string) int {
	for i, s := range c.Sections {
		if ID(s) == id {
			return i
		}
	}
	return -1
}

type wireConfig struct {
	Theme    Theme             `json:"theme"`
	Meta     Meta              `json:"meta"`
	Sections []json.RawMessage `json:"sections"`
}

type wireTag struct {
	Type string `json:"type"`
}

// Decode parses a JSON document into a SiteConfig.
func Decode(data []byte) (SiteConfig, error) {
	var cfg SiteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// UnmarshalJSON decodes each section into the variant named by its tag.
func (c *SiteConfig) UnmarshalJSON(data []byte) error {
	var wire wireConfig
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("section: decode document: %w", err)
	}

	sections := make([]Section, 0, len(wire.Sections))
	for idx, raw := range wire.Sections {
		s, err := DecodeSection(raw)
		if err != nil {
			return fmt.Errorf("section: sections[%d]: %w", idx, err)
		}
		sections = append(sections, s)
	}

	c.Theme = wire.Theme
	c.Meta = wire.Meta
	c.Sections = sections
	return nil
}

// DecodeSection decodes a single tagged section object.
func DecodeSection(raw []byte) (Section, error) {
	var tag wireTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	t, ok := ParseType(tag.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag.Type)
	}
	s, _ := Zero(t)
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	s.Common().Type = t
	return s, nil
}

// MarshalJSON writes sections with their tag taken from the Go variant, so a
// stale Base.Type can never reach the wire.
func (c SiteConfig) MarshalJSON() ([]byte, error) {
	sections := make([]json.RawMessage, 0, len(c.Sections))
	for idx, s := range c.Sections {
		if s == nil {
			return nil, fmt.Errorf("section: sections[%d] is nil", idx)
		}
		raw, err := EncodeSection(s)
		if err != nil {
			return nil, fmt.Errorf("section: sections[%d]: %w", idx, err)
		}
		sections = append(sections, raw)
	}
	return json.Marshal(wireConfig{
		Theme:    c.Theme,
		Meta:     c.Meta,
		Sections: sections,
	})
}

// EncodeSection marshals one section, stamping the authoritative tag.
func EncodeSection(s Section) ([]byte, error) {
	if s.Common().Type != s.SectionType() {
		s = s.Clone()
		s.Common().Type = s.SectionType()
	}
	return json.Marshal(s)
}

// Equal reports whether two documents encode to the same JSON.
func Equal(a, b SiteConfig) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
