package editor

import (
	"fmt"

	"github.com/goliatone/go-sections/pkg/section"
)

func register[T section.Section](m map[section.Type]Editor, t section.Type, driver PromptDriver, fill func(*Form, T)) {
	m[t] = promptEditor[T]{driver: driver, fill: fill}
}

// persons and instagram have no built-in editor.
func builtinEditors(driver PromptDriver) map[section.Type]Editor {
	m := make(map[section.Type]Editor)
	register(m, section.TypeHeader, driver, editHeader)
	register(m, section.TypeHero, driver, editHero)
	register(m, section.TypeFeatures, driver, editFeatures)
	register(m, section.TypeCTA, driver, editCTA)
	register(m, section.TypeNewsletter, driver, editNewsletter)
	register(m, section.TypeContact, driver, editContact)
	register(m, section.TypeScheduling, driver, editScheduling)
	register(m, section.TypeFooter, driver, editFooter)
	register(m, section.TypeTestimonials, driver, editTestimonials)
	register(m, section.TypeStats, driver, editStats)
	register(m, section.TypeAbout, driver, editAbout)
	register(m, section.TypeDisclaimer, driver, editDisclaimer)
	register(m, section.TypeSectional, driver, editSectional)
	register(m, section.TypeSkills, driver, editSkills)
	register(m, section.TypePricing, driver, editPricing)
	register(m, section.TypePartners, driver, editPartners)
	register(m, section.TypeGallery, driver, editGallery)
	register(m, section.TypeShare, driver, editShare)
	register(m, section.TypeSocials, driver, editSocials)
	register(m, section.TypeVideo, driver, editVideo)
	register(m, section.TypeProductListings, driver, editProductListings)
	return m
}

var linkItem = ListItem[section.Link]{
	Describe: func(l section.Link) string { return l.Label },
	New:      func() section.Link { return section.Link{} },
	Edit:     func(f *Form, l section.Link) section.Link { return f.Link("Link", l) },
}

var imageItem = ListItem[section.Image]{
	Describe: func(img section.Image) string {
		if img.Alt != "" {
			return img.Alt
		}
		return img.Src
	},
	New: func() section.Image { return section.Image{} },
	Edit: func(f *Form, img section.Image) section.Image {
		img = f.Image("Image", img)
		img.Caption = f.Text("Caption", img.Caption)
		return img
	},
}

func editHeader(f *Form, s *section.Header) {
	s.Title = f.Text("Site title", s.Title)
	s.Logo = f.Media("Logo", s.Logo)
	s.Links = EditList(f, "Navigation links", s.Links, linkItem)
	s.CTA = f.Link("Button", s.CTA)
	s.Sticky = f.Bool("Stick to the top while scrolling?", s.Sticky)
}

func editHero(f *Form, s *section.Hero) {
	s.Title = f.Text("Title", s.Title)
	s.Subtitle = f.Text("Subtitle", s.Subtitle)
	s.CTA = f.Link("Primary button", s.CTA)
	s.SecondaryCTA = f.Link("Secondary button", s.SecondaryCTA)
	s.Image = f.Media("Background image", s.Image)
	s.Alignment = f.Choice("Alignment", []string{"left", "center", "right"}, s.Alignment)
}

func editFeatures(f *Form, s *section.Features) {
	s.Title = f.Text("Title", s.Title)
	s.Subtitle = f.Text("Subtitle", s.Subtitle)
	s.Features = EditList(f, "Features", s.Features, ListItem[section.Feature]{
		Describe: func(v section.Feature) string { return v.Title },
		New:      func() section.Feature { return section.Feature{} },
		Edit: func(f *Form, v section.Feature) section.Feature {
			v.Icon = f.Text("Icon name or SVG", v.Icon)
			v.Title = f.Text("Feature title", v.Title)
			v.Description = f.Text("Description", v.Description)
			return v
		},
	})
}

func editCTA(f *Form, s *section.CTA) {
	s.Title = f.Text("Title", s.Title)
	s.Text = f.TextArea("Text", s.Text)
	s.Button = f.Link("Button", s.Button)
	s.Image = f.Media("Image", s.Image)
}

func editNewsletter(f *Form, s *section.Newsletter) {
	s.Title = f.Text("Title", s.Title)
	s.Text = f.Text("Text", s.Text)
	s.Placeholder = f.Text("Email placeholder", s.Placeholder)
	s.ButtonLabel = f.Text("Button label", s.ButtonLabel)
	s.Endpoint = f.Text("Signup endpoint", s.Endpoint)
}

func editContact(f *Form, s *section.Contact) {
	s.Title = f.Text("Title", s.Title)
	s.Text = f.Text("Text", s.Text)
	s.Email = f.Text("Email", s.Email)
	s.Phone = f.Text("Phone", s.Phone)
	s.Address = f.Text("Address", s.Address)
	s.ShowForm = f.Bool("Show a contact form?", s.ShowForm)
	if s.ShowForm {
		s.FormEndpoint = f.Text("Form endpoint", s.FormEndpoint)
	}
}

func editScheduling(f *Form, s *section.Scheduling) {
	s.Title = f.Text("Title", s.Title)
	s.Text = f.Text("Text", s.Text)
	s.Provider = f.Choice("Provider", []string{"calendly", "cal.com", "other"}, s.Provider)
	s.BookingURL = f.Text("Booking URL", s.BookingURL)
}

func editFooter(f *Form, s *section.Footer) {
	s.Logo = f.Media("Logo", s.Logo)
	s.Text = f.Text("Text", s.Text)
	s.Copyright = f.Text("Copyright", s.Copyright)
	s.Links = EditList(f, "Footer links", s.Links, linkItem)
}

func editTestimonials(f *Form, s *section.Testimonials) {
	s.Title = f.Text("Title", s.Title)
	s.Items = EditList(f, "Testimonials", s.Items, ListItem[section.Testimonial]{
		Describe: func(v section.Testimonial) string { return v.Author },
		New:      func() section.Testimonial { return section.Testimonial{} },
		Edit: func(f *Form, v section.Testimonial) section.Testimonial {
			v.Quote = f.TextArea("Quote", v.Quote)
			v.Author = f.Text("Author", v.Author)
			v.Role = f.Text("Role", v.Role)
			v.Avatar = f.Media("Avatar", v.Avatar)
			return v
		},
	})
}

func editStats(f *Form, s *section.Stats) {
	s.Title = f.Text("Title", s.Title)
	s.Items = EditList(f, "Stats", s.Items, ListItem[section.Stat]{
		Describe: func(v section.Stat) string { return v.Value + " " + v.Label },
		New:      func() section.Stat { return section.Stat{} },
		Edit: func(f *Form, v section.Stat) section.Stat {
			v.Value = f.Text("Value", v.Value)
			v.Label = f.Text("Label", v.Label)
			return v
		},
	})
}

func editAbout(f *Form, s *section.About) {
	s.Title = f.Text("Title", s.Title)
	s.Body = f.TextArea("Body (markdown)", s.Body)
	s.Image = f.Media("Image", s.Image)
}

func editDisclaimer(f *Form, s *section.Disclaimer) {
	s.Title = f.Text("Title", s.Title)
	s.Body = f.TextArea("Body (markdown)", s.Body)
}

func editSectional(f *Form, s *section.Sectional) {
	s.Title = f.Text("Title", s.Title)
	s.Body = f.TextArea("Body (markdown)", s.Body)
	s.Image = f.Media("Image", s.Image)
	s.ImagePosition = f.Choice("Image position", []string{"left", "right"}, s.ImagePosition)
}

func editSkills(f *Form, s *section.Skills) {
	s.Title = f.Text("Title", s.Title)
	s.Items = EditList(f, "Skills", s.Items, ListItem[section.Skill]{
		Describe: func(v section.Skill) string { return fmt.Sprintf("%s (%d%%)", v.Name, v.Level) },
		New:      func() section.Skill { return section.Skill{Level: 50} },
		Edit: func(f *Form, v section.Skill) section.Skill {
			v.Name = f.Text("Skill", v.Name)
			v.Level = f.Int("Level (0-100)", v.Level, 0, 100)
			return v
		},
	})
}

func editPricing(f *Form, s *section.Pricing) {
	s.Title = f.Text("Title", s.Title)
	s.Subtitle = f.Text("Subtitle", s.Subtitle)
	s.Plans = EditList(f, "Plans", s.Plans, ListItem[section.Plan]{
		Describe: func(v section.Plan) string { return v.Name },
		New:      func() section.Plan { return section.Plan{Features: []string{}} },
		Edit: func(f *Form, v section.Plan) section.Plan {
			v.Name = f.Text("Plan name", v.Name)
			v.Price = f.Text("Price", v.Price)
			v.Period = f.Text("Billing period", v.Period)
			v.Features = f.Strings("Plan features", v.Features)
			v.CTA = f.Link("Button", v.CTA)
			v.Highlighted = f.Bool("Highlight this plan?", v.Highlighted)
			return v
		},
	})
}

func editPartners(f *Form, s *section.Partners) {
	s.Title = f.Text("Title", s.Title)
	s.Logos = EditList(f, "Logos", s.Logos, imageItem)
}

func editGallery(f *Form, s *section.Gallery) {
	s.Title = f.Text("Title", s.Title)
	s.Columns = f.Int("Columns (1-6)", s.Columns, 1, 6)
	s.Images = EditList(f, "Images", s.Images, imageItem)
}

// ShareNetworks are the share targets offered by the share editor.
var ShareNetworks = []string{"facebook", "x", "linkedin", "whatsapp", "reddit", "email"}

func editShare(f *Form, s *section.Share) {
	s.Title = f.Text("Title", s.Title)
	s.URL = f.Text("Page URL to share (empty for the current page)", s.URL)
	s.Networks = f.MultiChoice("Networks", ShareNetworks, s.Networks)
}

func editSocials(f *Form, s *section.Socials) {
	s.Title = f.Text("Title", s.Title)
	s.Links = EditList(f, "Social links", s.Links, ListItem[section.SocialLink]{
		Describe: func(v section.SocialLink) string { return v.Network },
		New:      func() section.SocialLink { return section.SocialLink{} },
		Edit: func(f *Form, v section.SocialLink) section.SocialLink {
			v.Network = f.Choice("Network",
				[]string{"facebook", "instagram", "x", "linkedin", "youtube", "tiktok", "github"}, v.Network)
			v.URL = f.Text("Profile URL", v.URL)
			return v
		},
	})
}

func editVideo(f *Form, s *section.Video) {
	s.Title = f.Text("Title", s.Title)
	s.URL = f.Media("Video", s.URL)
	s.Poster = f.Media("Poster image", s.Poster)
	s.Autoplay = f.Bool("Autoplay (muted)?", s.Autoplay)
}

func editProductListings(f *Form, s *section.ProductListings) {
	s.Title = f.Text("Title", s.Title)
	s.Currency = f.Text("Currency", s.Currency)
	s.Products = EditList(f, "Products", s.Products, ListItem[section.Product]{
		Describe: func(v section.Product) string { return v.Name },
		New: func() section.Product {
			return section.Product{Images: []string{}, Variants: []section.ProductVariant{}, Specs: []section.Spec{}}
		},
		Edit: editProduct,
	})
}

func editProduct(f *Form, v section.Product) section.Product {
	v = v.Clone()
	v.ID = f.Text("Product id (SKU)", v.ID)
	v.Name = f.Text("Name", v.Name)
	v.Description = f.TextArea("Description", v.Description)
	v.Price = f.Float("Price", v.Price)
	v.CompareAtPrice = f.Float("Compare-at price (0 for none)", v.CompareAtPrice)
	v.Inventory = f.Int("Inventory", v.Inventory, 0, 1_000_000)
	v.Images = EditList(f, "Product images", v.Images, ListItem[string]{
		Describe: func(key string) string { return key },
		New:      func() string { return "" },
		Edit:     func(f *Form, key string) string { return f.Media("Product image", key) },
	})
	v.Variants = EditList(f, "Variants", v.Variants, ListItem[section.ProductVariant]{
		Describe: func(pv section.ProductVariant) string { return pv.Name },
		New:      func() section.ProductVariant { return section.ProductVariant{} },
		Edit: func(f *Form, pv section.ProductVariant) section.ProductVariant {
			pv.ID = f.Text("Variant id", pv.ID)
			pv.Name = f.Text("Variant name", pv.Name)
			pv.Price = f.Float("Variant price", pv.Price)
			pv.Inventory = f.Int("Variant inventory", pv.Inventory, 0, 1_000_000)
			return pv
		},
	})
	v.Specs = EditList(f, "Specs", v.Specs, ListItem[section.Spec]{
		Describe: func(sp section.Spec) string { return sp.Label },
		New:      func() section.Spec { return section.Spec{} },
		Edit: func(f *Form, sp section.Spec) section.Spec {
			sp.Label = f.Text("Spec label", sp.Label)
			sp.Value = f.Text("Spec value", sp.Value)
			return sp
		},
	})
	return v
}
