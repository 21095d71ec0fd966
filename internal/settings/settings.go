package settings

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

type SocialMedia struct {
	Facebook  string `json:"facebook" bson:"facebook"`
	Instagram string `json:"instagram" bson:"instagram"`
	Whatsapp  string `json:"whatsapp" bson:"whatsapp"`
}

type SEO struct {
	Title              string `json:"title" bson:"title"`
	Description        string `json:"description" bson:"description"`
	Keywords           string `json:"keywords" bson:"keywords"`
	GoogleAnalyticsID  string `json:"googleAnalyticsId" bson:"googleAnalyticsId"`
	GoogleTagManagerID string `json:"googleTagManagerId" bson:"googleTagManagerId"`
	FacebookPixelID    string `json:"facebookPixelId" bson:"facebookPixelId"`
}

// Settings is the single site-wide configuration record.
type Settings struct {
	WhatsappNumber string      `json:"whatsappNumber" bson:"whatsappNumber"`
	Email          string      `json:"email" bson:"email"`
	SocialMedia    SocialMedia `json:"socialMedia" bson:"socialMedia"`
	SEO            SEO         `json:"seo" bson:"seo"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Patch replaces top-level keys only. A provided socialMedia or seo object
// overwrites the stored one as a whole.
type Patch struct {
	WhatsappNumber *string      `json:"whatsappNumber,omitempty"`
	Email          *string      `json:"email,omitempty"`
	SocialMedia    *SocialMedia `json:"socialMedia,omitempty"`
	SEO            *SEO         `json:"seo,omitempty"`
}

// Default is what a fresh store starts with.
func Default() Settings {
	return Settings{
		SEO: SEO{
			Title:       "Presentes Personalizados",
			Description: "Canecas, camisetas e lembrancinhas personalizadas feitas sob encomenda.",
			Keywords:    "presentes personalizados, canecas, lembrancinhas",
		},
	}
}

func (p Patch) validate() error {
	errs := validation.Errors{}
	if p.WhatsappNumber != nil && *p.WhatsappNumber != "" {
		n := len(Digits(*p.WhatsappNumber))
		if n < 10 || n > 13 {
			errs["whatsappNumber"] = "whatsappNumber must have between 10 and 13 digits"
		}
	}
	if p.Email != nil && *p.Email != "" {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			errs["email"] = "email is invalid"
		}
	}
	return errs.Err()
}

func (s Settings) apply(p Patch) Settings {
	if p.WhatsappNumber != nil {
		s.WhatsappNumber = strings.TrimSpace(*p.WhatsappNumber)
	}
	if p.Email != nil {
		s.Email = strings.TrimSpace(*p.Email)
	}
	if p.SocialMedia != nil {
		s.SocialMedia = *p.SocialMedia
	}
	if p.SEO != nil {
		s.SEO = *p.SEO
	}
	return s
}

// Digits keeps only the ASCII digits of a phone number.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
