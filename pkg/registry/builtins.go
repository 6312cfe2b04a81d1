package registry

import (
	"fmt"
	"time"

	"github.com/goliatone/go-sections/pkg/section"
)

func builtinEntries() []Entry {
	return []Entry{
		{Type: section.TypeHeader, Label: "Header", Allowed: true, Factory: newHeader},
		{Type: section.TypeHero, Label: "Hero", Allowed: true, Factory: newHero},
		{Type: section.TypeFeatures, Label: "Features", Allowed: true, Factory: newFeatures},
		{Type: section.TypeCTA, Label: "Call to action", Allowed: true, Factory: newCTA},
		{Type: section.TypeNewsletter, Label: "Newsletter", Allowed: true, Factory: newNewsletter},
		{Type: section.TypeContact, Label: "Contact", Allowed: true, Factory: newContact},
		{Type: section.TypeScheduling, Label: "Scheduling", Allowed: true, Factory: newScheduling},
		{Type: section.TypeFooter, Label: "Footer", Allowed: true, Factory: newFooter},
		{Type: section.TypeTestimonials, Label: "Testimonials", Allowed: true, Factory: newTestimonials},
		{Type: section.TypeStats, Label: "Stats", Allowed: true, Factory: newStats},
		{Type: section.TypeAbout, Label: "About", Allowed: true, Factory: newAbout},
		{Type: section.TypeDisclaimer, Label: "Disclaimer", Allowed: true, Factory: newDisclaimer},
		{Type: section.TypeSectional, Label: "Text & image", Allowed: true, Factory: newSectional},
		{Type: section.TypeSkills, Label: "Skills", Allowed: true, Factory: newSkills},
		{Type: section.TypePricing, Label: "Pricing", Allowed: true, Factory: newPricing},
		{Type: section.TypeShare, Label: "Share buttons", Allowed: false, Factory: newShare},
		{Type: section.TypePartners, Label: "Partners", Allowed: true, Factory: newPartners},
		{Type: section.TypeInstagram, Label: "Instagram feed", Allowed: false, Factory: newInstagram},
		{Type: section.TypeGallery, Label: "Gallery", Allowed: true, Factory: newGallery},
		{Type: section.TypeSocials, Label: "Social links", Allowed: true, Factory: newSocials},
		{Type: section.TypeVideo, Label: "Video", Allowed: true, Factory: newVideo},
		{Type: section.TypeProductListings, Label: "Products", Allowed: true, Factory: newProductListings},
		{Type: section.TypePersons, Label: "Team", Allowed: true, Factory: newPersons},
	}
}

func newHeader() section.Section {
	return &section.Header{
		Title: "My Site",
		Links: []section.Link{{Label: "Home", Href: "/"}},
		CTA:   section.Link{Label: "Contact", Href: "/"},
	}
}

func newHero() section.Section {
	return &section.Hero{
		Title:        "A headline that sells",
		Subtitle:     "One sentence explaining what you offer.",
		CTA:          section.Link{Label: "Get started", Href: "/"},
		SecondaryCTA: section.Link{},
		Alignment:    "center",
	}
}

func newFeatures() section.Section {
	return &section.Features{
		Title: "Features",
		Features: []section.Feature{
			{Icon: "star", Title: "Fast", Description: "Explain the first benefit."},
			{Icon: "shield", Title: "Reliable", Description: "Explain the second benefit."},
			{Icon: "heart", Title: "Friendly", Description: "Explain the third benefit."},
		},
	}
}

func newCTA() section.Section {
	return &section.CTA{
		Title:  "Ready to start?",
		Text:   "Tell visitors what to do next.",
		Button: section.Link{Label: "Let's talk", Href: "/"},
	}
}

func newNewsletter() section.Section {
	return &section.Newsletter{
		Title:       "Stay in the loop",
		Text:        "Get updates straight to your inbox.",
		Placeholder: "you@example.com",
		ButtonLabel: "Subscribe",
	}
}

func newContact() section.Section {
	return &section.Contact{
		Title:    "Get in touch",
		Text:     "We usually reply within a day.",
		ShowForm: true,
	}
}

func newScheduling() section.Section {
	return &section.Scheduling{
		Title:    "Book a call",
		Provider: "calendly",
	}
}

func newFooter() section.Section {
	return &section.Footer{
		Copyright: fmt.Sprintf("© %d My Site", time.Now().Year()),
		Links:     []section.Link{},
	}
}

func newTestimonials() section.Section {
	return &section.Testimonials{
		Title: "What people say",
		Items: []section.Testimonial{
			{Quote: "Absolutely great.", Author: "Happy customer"},
		},
	}
}

func newStats() section.Section {
	return &section.Stats{
		Items: []section.Stat{
			{Value: "100+", Label: "Customers"},
			{Value: "24/7", Label: "Support"},
		},
	}
}

func newAbout() section.Section {
	return &section.About{
		Title: "About us",
		Body:  "Tell your story here.",
	}
}

func newDisclaimer() section.Section {
	return &section.Disclaimer{
		Body: "Add any legal notes here.",
	}
}

func newSectional() section.Section {
	return &section.Sectional{
		Title:         "A closer look",
		Body:          "Describe this part of your offer.",
		ImagePosition: "right",
	}
}

func newSkills() section.Section {
	return &section.Skills{
		Title: "Skills",
		Items: []section.Skill{{Name: "Design", Level: 80}},
	}
}

func newPricing() section.Section {
	return &section.Pricing{
		Title: "Pricing",
		Plans: []section.Plan{
			{
				Name:     "Basic",
				Price:    "$9",
				Period:   "month",
				Features: []string{"One thing", "Another thing"},
				CTA:      section.Link{Label: "Choose", Href: "/"},
			},
		},
	}
}

func newShare() section.Section {
	return &section.Share{
		Title:    "Share",
		Networks: []string{"facebook", "x", "linkedin"},
	}
}

func newPartners() section.Section {
	return &section.Partners{
		Title: "Trusted by",
		Logos: []section.Image{},
	}
}

func newInstagram() section.Section {
	return &section.Instagram{
		Title: "Follow us",
		Posts: []string{},
	}
}

func newGallery() section.Section {
	return &section.Gallery{
		Columns: 3,
		Images:  []section.Image{},
	}
}

func newSocials() section.Section {
	return &section.Socials{
		Links: []section.SocialLink{},
	}
}

func newVideo() section.Section {
	return &section.Video{}
}

func newProductListings() section.Section {
	return &section.ProductListings{
		Title:    "Shop",
		Currency: "USD",
		Products: []section.Product{},
	}
}

func newPersons() section.Section {
	return &section.Persons{
		Title:  "Our team",
		People: []section.Person{},
	}
}
