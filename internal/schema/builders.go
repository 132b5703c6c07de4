package schema

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/asmlabs/pagemark/internal/content"
)

// buildItem dispatches to the type-specific builder. Every builder is a
// pure function from item fields (plus site config for author/publisher
// enrichment) to a flat object; keys are populated only when the source
// field exists.
func buildItem(t Type, it *content.Item, site Site) Object {
	switch {
	case t.IsArticle():
		return buildArticle(t, it, site)
	case t == TypeProduct:
		return buildProduct(it)
	case t == TypeRecipe:
		return buildRecipe(it)
	case t == TypeFAQPage:
		return buildFAQPage(it)
	case t == TypeHowTo:
		return buildHowTo(it)
	case t == TypeLocalBusiness:
		return buildLocalBusiness(it, site)
	case t == TypeEvent:
		return buildEvent(it)
	default:
		return buildWebPage(it)
	}
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func buildArticle(t Type, it *content.Item, site Site) Object {
	o := NewObject(t)
	o.set("name", it.Title)
	o.set("headline", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	if it.Author != "" {
		o.set("author", Object{"@type": "Person", "name": it.Author})
	}
	o.set("datePublished", isoDate(it.Published))
	o.set("dateModified", isoDate(it.Modified))
	o.set("mainEntityOfPage", it.URL)
	o.set("publisher", site.publisher())
	o.set("keywords", strings.Join(it.Tags, ", "))
	if len(it.Categories) > 0 {
		o.set("articleSection", it.Categories[0])
	}
	return o
}

func buildProduct(it *content.Item) Object {
	o := NewObject(TypeProduct)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	p := it.Product
	if p == nil {
		return o
	}
	o.set("sku", p.SKU)
	if p.Brand != "" {
		o.set("brand", Object{"@type": "Brand", "name": p.Brand})
	}
	if p.Price > 0 {
		offer := Object{"@type": "Offer", "price": p.Price}
		offer.set("priceCurrency", p.Currency)
		offer.set("availability", availabilityURL(p.Availability))
		offer.set("url", it.URL)
		o.set("offers", offer)
	}
	return o
}

// availabilityURL expands bare availability names to schema.org URLs;
// values that already look like URLs pass through.
func availabilityURL(v string) string {
	if v == "" || strings.HasPrefix(v, "http") {
		return v
	}
	return Context + "/" + v
}

func buildRecipe(it *content.Item) Object {
	o := NewObject(TypeRecipe)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	if it.Author != "" {
		o.set("author", Object{"@type": "Person", "name": it.Author})
	}
	r := it.Recipe
	if r == nil {
		return o
	}
	o.set("recipeIngredient", r.Ingredients)
	if len(r.Instructions) > 0 {
		steps := make([]any, 0, len(r.Instructions))
		for _, text := range r.Instructions {
			steps = append(steps, Object{"@type": "HowToStep", "text": text})
		}
		o.set("recipeInstructions", steps)
	}
	o.set("prepTime", r.PrepTime)
	o.set("cookTime", r.CookTime)
	o.set("totalTime", r.TotalTime)
	o.set("recipeYield", r.Yield)
	o.set("recipeCategory", r.Category)
	o.set("recipeCuisine", r.Cuisine)
	if len(r.Nutrition) > 0 {
		n := Object{"@type": "NutritionInformation"}
		for k, v := range r.Nutrition {
			n.set(k, v)
		}
		o.set("nutrition", n)
	}
	return o
}

// buildFAQPage extracts question/answer pairs from the rendered body: each
// h2 is a question, the paragraph that follows it is the answer.
func buildFAQPage(it *content.Item) Object {
	o := NewObject(TypeFAQPage)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("mainEntity", extractQA(it.Body))
	return o
}

func extractQA(body string) []any {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var qa []any
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		question := strings.TrimSpace(s.Text())
		answer := strings.TrimSpace(s.NextFiltered("p").Text())
		if question == "" || answer == "" {
			return
		}
		qa = append(qa, Object{
			"@type": "Question",
			"name":  question,
			"acceptedAnswer": Object{
				"@type": "Answer",
				"text":  answer,
			},
		})
	})
	return qa
}

func buildHowTo(it *content.Item) Object {
	o := NewObject(TypeHowTo)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	h := it.HowTo
	if h == nil {
		return o
	}
	if len(h.Steps) > 0 {
		steps := make([]any, 0, len(h.Steps))
		for _, st := range h.Steps {
			step := Object{"@type": "HowToStep", "text": st.Text}
			step.set("name", st.Name)
			steps = append(steps, step)
		}
		o.set("step", steps)
	}
	o.set("totalTime", h.TotalTime)
	o.set("supply", h.Supplies)
	o.set("tool", h.Tools)
	return o
}

func buildLocalBusiness(it *content.Item, site Site) Object {
	o := NewObject(TypeLocalBusiness)
	name := it.Title
	if name == "" {
		name = site.Name
	}
	o.set("name", name)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	b := it.Business
	if b == nil {
		return o
	}
	addr := Object{"@type": "PostalAddress"}
	addr.set("streetAddress", b.Street)
	addr.set("addressLocality", b.Locality)
	addr.set("addressRegion", b.Region)
	addr.set("postalCode", b.PostalCode)
	addr.set("addressCountry", b.Country)
	if len(addr) > 1 {
		o.set("address", addr)
	}
	o.set("telephone", b.Telephone)
	o.set("openingHours", b.OpeningHours)
	o.set("priceRange", b.PriceRange)
	if b.Latitude != 0 || b.Longitude != 0 {
		o.set("geo", Object{
			"@type":     "GeoCoordinates",
			"latitude":  b.Latitude,
			"longitude": b.Longitude,
		})
	}
	return o
}

func buildEvent(it *content.Item) Object {
	o := NewObject(TypeEvent)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	e := it.Event
	if e == nil {
		return o
	}
	o.set("startDate", isoDate(e.Start))
	o.set("endDate", isoDate(e.End))
	if e.LocationName != "" || e.LocationAddr != "" {
		loc := Object{"@type": "Place"}
		loc.set("name", e.LocationName)
		loc.set("address", e.LocationAddr)
		o.set("location", loc)
	}
	if e.Performer != "" {
		o.set("performer", Object{"@type": "Person", "name": e.Performer})
	}
	if e.Organizer != "" {
		o.set("organizer", Object{"@type": "Organization", "name": e.Organizer})
	}
	if e.Price > 0 {
		offer := Object{"@type": "Offer", "price": e.Price}
		offer.set("priceCurrency", e.Currency)
		offer.set("url", it.URL)
		o.set("offers", offer)
	}
	return o
}

func buildWebPage(it *content.Item) Object {
	o := NewObject(TypeWebPage)
	o.set("name", it.Title)
	o.set("url", it.URL)
	o.set("description", it.Description())
	o.set("image", it.Image)
	return o
}
