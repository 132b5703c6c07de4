package schema

import "fmt"

// Status is the overall outcome of a validation run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Report is the outcome of validating one object: missing required
// properties force an error, missing recommended properties force at least
// a warning, and every check that passed is recorded.
type Report struct {
	Status Status   `json:"status"`
	Issues []string `json:"issues"`
	Passed []string `json:"success"`
}

// rules holds the property checks for one type.
type rules struct {
	required    []string
	recommended []string
}

// baseRecommended applies to every type on top of its own recommended list.
var baseRecommended = []string{"description", "image"}

var ruleTable = map[Type]rules{
	TypeArticle:     articleRules,
	TypeBlogPosting: articleRules,
	TypeNewsArticle: articleRules,
	TypeProduct: {
		required:    []string{"name", "url", "description", "image"},
		recommended: []string{"brand", "offers", "aggregateRating", "review"},
	},
	TypeRecipe: {
		required:    []string{"name", "url", "recipeIngredient", "recipeInstructions"},
		recommended: []string{"cookTime", "prepTime", "totalTime", "nutrition", "recipeYield", "recipeCategory", "recipeCuisine"},
	},
	TypeFAQPage: {
		required: []string{"name", "url", "mainEntity"},
	},
	TypeHowTo: {
		required:    []string{"name", "url", "step"},
		recommended: []string{"totalTime", "supply", "tool"},
	},
	TypeLocalBusiness: {
		required:    []string{"name", "url", "address"},
		recommended: []string{"telephone", "openingHours", "priceRange", "geo"},
	},
	TypeEvent: {
		required:    []string{"name", "url", "startDate", "location"},
		recommended: []string{"endDate", "performer", "offers", "organizer"},
	},
	TypeWebPage: {
		required: []string{"name", "url"},
	},
}

var articleRules = rules{
	required:    []string{"name", "url", "headline", "author", "datePublished", "publisher"},
	recommended: []string{"dateModified", "mainEntityOfPage", "keywords"},
}

// rulesFor returns the rule set for a type, falling back to the WebPage
// rules for anything outside the table.
func rulesFor(t Type) rules {
	if r, ok := ruleTable[t]; ok {
		return r
	}
	return ruleTable[TypeWebPage]
}

// Validate compares an object's keys against the required and recommended
// property lists for the given type. A none-typed item short-circuits to a
// warning with a single disabled issue and no further checks.
func Validate(obj Object, t Type) Report {
	if t == TypeNone {
		return Report{
			Status: StatusWarning,
			Issues: []string{"Schema output is disabled for this item"},
		}
	}

	r := rulesFor(t)
	report := Report{Status: StatusSuccess}

	for _, prop := range r.required {
		if _, ok := obj[prop]; ok {
			report.Passed = append(report.Passed, prop)
			continue
		}
		report.Status = StatusError
		report.Issues = append(report.Issues, fmt.Sprintf("Missing required property: %s", prop))
	}

	for _, prop := range recommendedFor(r) {
		if _, ok := obj[prop]; ok {
			report.Passed = append(report.Passed, prop)
			continue
		}
		// A missing recommended property never downgrades an error.
		if report.Status != StatusError {
			report.Status = StatusWarning
		}
		report.Issues = append(report.Issues, fmt.Sprintf("Missing recommended property: %s", prop))
	}

	return report
}

// recommendedFor merges the base recommended properties with the type's
// own, deduplicated, base first.
func recommendedFor(r rules) []string {
	out := make([]string, 0, len(baseRecommended)+len(r.recommended))
	seen := make(map[string]bool)
	for _, p := range baseRecommended {
		seen[p] = true
		out = append(out, p)
	}
	for _, p := range r.recommended {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Recommendations turns a report's missing-recommended issues into
// advisory strings for the admin validator UI.
func Recommendations(report Report, t Type) []string {
	var recs []string
	for _, issue := range report.Issues {
		var prop string
		if _, err := fmt.Sscanf(issue, "Missing recommended property: %s", &prop); err == nil {
			recs = append(recs, fmt.Sprintf("Add %q to strengthen %s rich results eligibility", prop, t))
		}
	}
	return recs
}
