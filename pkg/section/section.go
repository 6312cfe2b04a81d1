package section

import "strings"

// Type is the discriminator carried by every section in a document.
type Type string

// Section types, listed in catalog order. The order matters: registries and
// "add section" menus present types in this sequence.
const (
	TypeHeader          Type = "header"
	TypeHero            Type = "hero"
	TypeFeatures        Type = "features"
	TypeCTA             Type = "cta"
	TypeNewsletter      Type = "newsletter"
	TypeContact         Type = "contact"
	TypeScheduling      Type = "scheduling"
	TypeFooter          Type = "footer"
	TypeTestimonials    Type = "testimonials"
	TypeStats           Type = "stats"
	TypeAbout           Type = "about"
	TypeDisclaimer      Type = "disclaimer"
	TypeSectional       Type = "sectional"
	TypeSkills          Type = "skills"
	TypePricing         Type = "pricing"
	TypeShare           Type = "share"
	TypePartners        Type = "partners"
	TypeInstagram       Type = "instagram"
	TypeGallery         Type = "gallery"
	TypeSocials         Type = "socials"
	TypeVideo           Type = "video"
	TypeProductListings Type = "productListings"
	TypePersons         Type = "persons"
)

var catalog = []Type{
	TypeHeader,
	TypeHero,
	TypeFeatures,
	TypeCTA,
	TypeNewsletter,
	TypeContact,
	TypeScheduling,
	TypeFooter,
	TypeTestimonials,
	TypeStats,
	TypeAbout,
	TypeDisclaimer,
	TypeSectional,
	TypeSkills,
	TypePricing,
	TypeShare,
	TypePartners,
	TypeInstagram,
	TypeGallery,
	TypeSocials,
	TypeVideo,
	TypeProductListings,
	TypePersons,
}

// Types returns the closed section catalog in definition order.
func Types() []Type {
	out := make([]Type, len(catalog))
	copy(out, catalog)
	return out
}

// ParseType resolves a raw tag into a catalog type.
func ParseType(raw string) (Type, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, t := range catalog {
		if string(t) == trimmed {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t belongs to the catalog.
func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

func (t Type) String() string {
	return string(t)
}

// Base holds the fields shared by every section variant. Variants embed it so
// the fields are flattened into the section's JSON object.
type Base struct {
	ID              string `json:"id"`
	Type            Type   `json:"type"`
	Visible         *bool  `json:"visible,omitempty"`
	Editable        *bool  `json:"editable,omitempty"`
	BackgroundClass string `json:"backgroundClass,omitempty"`
	TopWaveType     string `json:"topWaveType,omitempty"`
	BottomWaveType  string `json:"bottomWaveType,omitempty"`
}

// Common exposes the shared fields of a variant.
func (b *Base) Common() *Base {
	return b
}

func (b *Base) sealed() {}

func (b Base) clone() Base {
	out := b
	out.Visible = cloneBool(b.Visible)
	out.Editable = cloneBool(b.Editable)
	return out
}

// Section is the closed union of page sections. Only the variant types declared
// in this package implement it.
type Section interface {
	// Common returns the shared base fields. The pointer aliases the section.
	Common() *Base
	// SectionType is the authoritative tag for the Go variant.
	SectionType() Type
	// Clone returns a structural deep copy.
	Clone() Section

	sealed()
}

// ID returns the section id, or "" for a nil section.
func ID(s Section) string {
	if s == nil {
		return ""
	}
	return s.Common().ID
}

// IsVisible reports whether a section should be rendered. An unset flag means
// visible.
func IsVisible(s Section) bool {
	if s == nil {
		return false
	}
	visible := s.Common().Visible
	return visible == nil || *visible
}

// IsEditable reports whether the admin may edit the section. An unset flag
// means editable.
func IsEditable(s Section) bool {
	if s == nil {
		return false
	}
	editable := s.Common().Editable
	return editable == nil || *editable
}

// Bool returns a pointer to v, handy for the optional Visible/Editable flags.
func Bool(v bool) *bool {
	return &v
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
