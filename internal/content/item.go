// Package content defines the content items and view contexts that the
// enrichment components operate on, plus the file-backed stores that
// persist them.
package content

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Kind is the content kind of an item.
type Kind string

const (
	KindPost    Kind = "post"
	KindPage    Kind = "page"
	KindProduct Kind = "product"
)

// Ref is a resolved reference to another item or archive, used for
// breadcrumb ancestry.
type Ref struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Item is one content item: rendered body HTML plus the metadata the
// enrichment components read. Fields the source never set stay zero and the
// consumers omit them.
type Item struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Title      string    `json:"title" yaml:"title"`
	Excerpt    string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Body       string    `json:"body,omitempty" yaml:"body,omitempty"`
	URL        string    `json:"url" yaml:"url"`
	Author     string    `json:"author,omitempty" yaml:"author,omitempty"`
	Image      string    `json:"image,omitempty" yaml:"image,omitempty"`
	Published  time.Time `json:"published,omitempty" yaml:"published,omitempty"`
	Modified   time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
	Categories []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Parent is the id of the hierarchical parent for page-like content.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// SchemaType is the item's declared schema.org type name. Empty means
	// the site default for the item's kind applies.
	SchemaType string `json:"schema_type,omitempty" yaml:"schema_type,omitempty"`

	Product  *ProductFields  `json:"product,omitempty" yaml:"product,omitempty"`
	Recipe   *RecipeFields   `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	HowTo    *HowToFields    `json:"howto,omitempty" yaml:"howto,omitempty"`
	Business *BusinessFields `json:"business,omitempty" yaml:"business,omitempty"`
	Event    *EventFields    `json:"event,omitempty" yaml:"event,omitempty"`
}

// ProductFields carries product metadata.
type ProductFields struct {
	Brand        string  `json:"brand,omitempty" yaml:"brand,omitempty"`
	SKU          string  `json:"sku,omitempty" yaml:"sku,omitempty"`
	Price        float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Currency     string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Availability string  `json:"availability,omitempty" yaml:"availability,omitempty"`
}

// RecipeFields carries recipe metadata. Durations are ISO 8601 strings
// (e.g. PT30M), passed through untouched.
type RecipeFields struct {
	Ingredients  []string          `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Instructions []string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	PrepTime     string            `json:"prep_time,omitempty" yaml:"prep_time,omitempty"`
	CookTime     string            `json:"cook_time,omitempty" yaml:"cook_time,omitempty"`
	TotalTime    string            `json:"total_time,omitempty" yaml:"total_time,omitempty"`
	Yield        string            `json:"yield,omitempty" yaml:"yield,omitempty"`
	Category     string            `json:"category,omitempty" yaml:"category,omitempty"`
	Cuisine      string            `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Nutrition    map[string]string `json:"nutrition,omitempty" yaml:"nutrition,omitempty"`
}

// HowToStep is one step of a HowTo item.
type HowToStep struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Text string `json:"text" yaml:"text"`
}

// HowToFields carries how-to metadata.
type HowToFields struct {
	Steps     []HowToStep `json:"steps,omitempty" yaml:"steps,omitempty"`
	TotalTime string      `json:"total_time,omitempty" yaml:"total_time,omitempty"`
	Supplies  []string    `json:"supplies,omitempty" yaml:"supplies,omitempty"`
	Tools     []string    `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// BusinessFields carries local business metadata.
type BusinessFields struct {
	Street       string   `json:"street,omitempty" yaml:"street,omitempty"`
	Locality     string   `json:"locality,omitempty" yaml:"locality,omitempty"`
	Region       string   `json:"region,omitempty" yaml:"region,omitempty"`
	PostalCode   string   `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Country      string   `json:"country,omitempty" yaml:"country,omitempty"`
	Telephone    string   `json:"telephone,omitempty" yaml:"telephone,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty" yaml:"opening_hours,omitempty"`
	PriceRange   string   `json:"price_range,omitempty" yaml:"price_range,omitempty"`
	Latitude     float64  `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude    float64  `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// EventFields carries event metadata.
type EventFields struct {
	Start        time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End          time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	LocationName string    `json:"location_name,omitempty" yaml:"location_name,omitempty"`
	LocationAddr string    `json:"location_addr,omitempty" yaml:"location_addr,omitempty"`
	Performer    string    `json:"performer,omitempty" yaml:"performer,omitempty"`
	Organizer    string    `json:"organizer,omitempty" yaml:"organizer,omitempty"`
	Price        float64   `json:"price,omitempty" yaml:"price,omitempty"`
	Currency     string    `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// excerptWords caps the length of a derived excerpt.
const excerptWords = 55

// Description returns the item's excerpt, deriving one from the body text
// when no explicit excerpt was set. Returns "" when neither yields text, so
// callers can omit the field entirely.
func (it *Item) Description() string {
	if strings.TrimSpace(it.Excerpt) != "" {
		return strings.TrimSpace(it.Excerpt)
	}
	return deriveExcerpt(it.Body)
}

// deriveExcerpt reduces body HTML to its leading plain-text words.
func deriveExcerpt(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	// Gather block-level text so adjacent elements stay word-separated.
	var parts []string
	doc.Find("p,li,h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.Join(parts, " ")
	if text == "" {
		text = doc.Text()
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) > excerptWords {
		words = words[:excerptWords]
		return strings.Join(words, " ") + "…"
	}
	return strings.Join(words, " ")
}
