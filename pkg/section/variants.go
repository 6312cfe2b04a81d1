package section

import "slices"

// Link is a labelled navigation target. Internal anchors use the "/#<id>" form.
type Link struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	External bool   `json:"external,omitempty"`
}

// Image references media by storage key or absolute URL.
type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type Feature struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type Plan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Features    []string `json:"features"`
	CTA         Link     `json:"cta"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ProductVariant struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Inventory int     `json:"inventory"`
}

type Product struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Images         []string         `json:"images"`
	Price          float64          `json:"price"`
	CompareAtPrice float64          `json:"compareAtPrice,omitempty"`
	Inventory      int              `json:"inventory"`
	Variants       []ProductVariant `json:"variants"`
	Specs          []Spec           `json:"specs"`
}

type Person struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Photo string `json:"photo,omitempty"`
	Links []Link `json:"links"`
}

type Header struct {
	Base
	Logo   string `json:"logo,omitempty"`
	Title  string `json:"title"`
	Links  []Link `json:"links"`
	CTA    Link   `json:"cta"`
	Sticky bool   `json:"sticky,omitempty"`
}

type Hero struct {
	Base
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	CTA          Link   `json:"cta"`
	SecondaryCTA Link   `json:"secondaryCta"`
	Image        string `json:"image,omitempty"`
	Alignment    string `json:"alignment,omitempty"`
}

type Features struct {
	Base
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Features []Feature `json:"features"`
}

type CTA struct {
	Base
	Title  string `json:"title"`
	Text   string `json:"text"`
	Button Link   `json:"button"`
	Image  string `json:"image,omitempty"`
}

type Newsletter struct {
	Base
	Title       string `json:"title"`
	Text        string `json:"text"`
	Placeholder string `json:"placeholder"`
	ButtonLabel string `json:"buttonLabel"`
	Endpoint    string `json:"endpoint,omitempty"`
}

type Contact struct {
	Base
	Title        string `json:"title"`
	Text         string `json:"text,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	FormEndpoint string `json:"formEndpoint,omitempty"`
	ShowForm     bool   `json:"showForm"`
}

type Scheduling struct {
	Base
	Title      string `json:"title"`
	Text       string `json:"text,omitempty"`
	Provider   string `json:"provider"`
	BookingURL string `json:"bookingUrl"`
}

type Footer struct {
	Base
	Logo      string `json:"logo,omitempty"`
	Text      string `json:"text,omitempty"`
	Copyright string `json:"copyright"`
	Links     []Link `json:"links"`
}

type Testimonials struct {
	Base
	Title string        `json:"title"`
	Items []Testimonial `json:"items"`
}

type Stats struct {
	Base
	Title string `json:"title,omitempty"`
	Items []Stat `json:"items"`
}

type About struct {
	Base
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image,omitempty"`
}

type Disclaimer struct {
	Base
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

type Sectional struct {
	Base
	Title         string `json:"title"`
	Body          string `json:"body"`
	Image         string `json:"image,omitempty"`
	ImagePosition string `json:"imagePosition,omitempty"`
}

type Skills struct {
	Base
	Title string  `json:"title"`
	Items []Skill `json:"items"`
}

type Pricing struct {
	Base
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Plans    []Plan `json:"plans"`
}

type Share struct {
	Base
	Title    string   `json:"title,omitempty"`
	URL      string   `json:"url,omitempty"`
	Networks []string `json:"networks"`
}

type Partners struct {
	Base
	Title string  `json:"title"`
	Logos []Image `json:"logos"`
}

type Instagram struct {
	Base
	Title  string   `json:"title"`
	Handle string   `json:"handle"`
	Posts  []string `json:"posts"`
}

type Gallery struct {
	Base
	Title   string  `json:"title,omitempty"`
	Columns int     `json:"columns"`
	Images  []Image `json:"images"`
}

type Socials struct {
	Base
	Title string       `json:"title,omitempty"`
	Links []SocialLink `json:"links"`
}

type Video struct {
	Base
	Title    string `json:"title,omitempty"`
	URL      string `json:"url"`
	Poster   string `json:"poster,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
}

type ProductListings struct {
	Base
	Title    string    `json:"title"`
	Currency string    `json:"currency"`
	Products []Product `json:"products"`
}

type Persons struct {
	Base
	Title  string   `json:"title"`
	People []Person `json:"people"`
}

func (*Header) SectionType() Type          { return TypeHeader }
func (*Hero) SectionType() Type            { return TypeHero }
func (*Features) SectionType() Type        { return TypeFeatures }
func (*CTA) SectionType() Type             { return TypeCTA }
func (*Newsletter) SectionType() Type      { return TypeNewsletter }
func (*Contact) SectionType() Type         { return TypeContact }
func (*Scheduling) SectionType() Type      { return TypeScheduling }
func (*Footer) SectionType() Type          { return TypeFooter }
func (*Testimonials) SectionType() Type    { return TypeTestimonials }
func (*Stats) SectionType() Type           { return TypeStats }
func (*About) SectionType() Type           { return TypeAbout }
func (*Disclaimer) SectionType() Type      { return TypeDisclaimer }
func (*Sectional) SectionType() Type       { return TypeSectional }
func (*Skills) SectionType() Type          { return TypeSkills }
func (*Pricing) SectionType() Type         { return TypePricing }
func (*Share) SectionType() Type           { return TypeShare }
func (*Partners) SectionType() Type        { return TypePartners }
func (*Instagram) SectionType() Type       { return TypeInstagram }
func (*Gallery) SectionType() Type         { return TypeGallery }
func (*Socials) SectionType() Type         { return TypeSocials }
func (*Video) SectionType() Type           { return TypeVideo }
func (*ProductListings) SectionType() Type { return TypeProductListings }
func (*Persons) SectionType() Type         { return TypePersons }

func (s *Header) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Links = slices.Clone(s.Links)
	return &out
}

func (s *Hero) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Features) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Features = slices.Clone(s.Features)
	return &out
}

func (s *CTA) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Newsletter) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Contact) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Scheduling) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Footer) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Links = slices.Clone(s.Links)
	return &out
}

func (s *Testimonials) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Items = slices.Clone(s.Items)
	return &out
}

func (s *Stats) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Items = slices.Clone(s.Items)
	return &out
}

func (s *About) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Disclaimer) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Sectional) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *Skills) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Items = slices.Clone(s.Items)
	return &out
}

func (s *Pricing) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	if s.Plans != nil {
		out.Plans = make([]Plan, len(s.Plans))
		for i, plan := range s.Plans {
			plan.Features = slices.Clone(plan.Features)
			out.Plans[i] = plan
		}
	}
	return &out
}

func (s *Share) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Networks = slices.Clone(s.Networks)
	return &out
}

func (s *Partners) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Logos = slices.Clone(s.Logos)
	return &out
}

func (s *Instagram) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Posts = slices.Clone(s.Posts)
	return &out
}

func (s *Gallery) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Images = slices.Clone(s.Images)
	return &out
}

func (s *Socials) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	out.Links = slices.Clone(s.Links)
	return &out
}

func (s *Video) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	return &out
}

func (s *ProductListings) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	if s.Products != nil {
		out.Products = make([]Product, len(s.Products))
		for i, product := range s.Products {
			out.Products[i] = product.Clone()
		}
	}
	return &out
}

func (s *Persons) Clone() Section {
	out := *s
	out.Base = s.Base.clone()
	if s.People != nil {
		out.People = make([]Person, len(s.People))
		for i, person := range s.People {
			person.Links = slices.Clone(person.Links)
			out.People[i] = person
		}
	}
	return &out
}

// Clone copies the product including its nested slices.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	p.Variants = slices.Clone(p.Variants)
	p.Specs = slices.Clone(p.Specs)
	return p
}

// Zero returns an empty variant for t with the tag set, or false when t is not
// part of the catalog. It is the decoding counterpart of the registry
// factories, which also fill in defaults.
func Zero(t Type) (Section, bool) {
	var s Section
	switch t {
	case TypeHeader:
		s = &Header{}
	case TypeHero:
		s = &Hero{}
	case TypeFeatures:
		s = &Features{}
	case TypeCTA:
		s = &CTA{}
	case TypeNewsletter:
		s = &Newsletter{}
	case TypeContact:
		s = &Contact{}
	case TypeScheduling:
		s = &Scheduling{}
	case TypeFooter:
		s = &Footer{}
	case TypeTestimonials:
		s = &Testimonials{}
	case TypeStats:
		s = &Stats{}
	case TypeAbout:
		s = &About{}
	case TypeDisclaimer:
		s = &Disclaimer{}
	case TypeSectional:
		s = &Sectional{}
	case TypeSkills:
		s = &Skills{}
	case TypePricing:
		s = &Pricing{}
	case TypeShare:
		s = &Share{}
	case TypePartners:
		s = &Partners{}
	case TypeInstagram:
		s = &Instagram{}
	case TypeGallery:
		s = &Gallery{}
	case TypeSocials:
		s = &Socials{}
	case TypeVideo:
		s = &Video{}
	case TypeProductListings:
		s = &ProductListings{}
	case TypePersons:
		s = &Persons{}
	default:
		return nil, false
	}
	s.Common().Type = t
	return s, true
}
