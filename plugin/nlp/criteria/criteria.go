// Package criteria turns tagged spans into normalized search criteria
// for the downstream graph query templates.
package criteria

import (
	"strings"
	"unicode"

	"github.com/gertd/go-pluralize"

	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
)

// Recipe is the normalized criteria record for a recipe search.
// List fields are never nil; absent scalars are nil pointers or empty
// strings. Ingredients and categories always carry both the singular and
// plural form of each term so the query layer can match either.
type Recipe struct {
	Category    []string `json:"category"`
	Cuisine     []string `json:"cuisine"`
	Ingredients []string `json:"ingredients"`
	Allergies   []string `json:"allergies"`
	Diet        string   `json:"diet,omitempty"`
	MinRating   *int     `json:"min_rating,omitempty"`
	MaxTime     *int     `json:"max_time,omitempty"`
}

// Restaurant is the normalized criteria record for a restaurant search.
type Restaurant struct {
	Cuisine   string `json:"cuisine,omitempty"`
	MinRating *int   `json:"min_rating,omitempty"`
	MaxTime   *int   `json:"max_time,omitempty"`
	City      string `json:"city,omitempty"`
}

// Extractor consumes tagged spans and produces criteria records.
// Stateless and safe for concurrent use.
type Extractor struct {
	inflect *pluralize.Client
}

// NewExtractor creates a new criteria extractor.
func NewExtractor() *Extractor {
	return &Extractor{inflect: pluralize.NewClient()}
}

// Recipe builds a recipe criteria record from the tagged spans.
// Ingredients whose singular or plural form appears in the allergy set
// are silently dropped. No entities of a kind leaves the corresponding
// list field empty and scalar field unset; this is never an error.
func (e *Extractor) Recipe(spans []ner.Span, allergies []string) Recipe {
	record := Recipe{
		Category:    []string{},
		Cuisine:     []string{},
		Ingredients: []string{},
		Allergies:   normalizeTerms(allergies),
	}
	allergySet := make(map[string]bool, len(record.Allergies))
	for _, a := range record.Allergies {
		allergySet[a] = true
	}

	for _, span := range spans {
		switch span.Label {
		case ner.LabelCuisine:
			record.Cuisine = append(record.Cuisine, capitalize(span.Text))
		case ner.LabelIngredient:
			lemma := span.Lemma
			plural := e.inflect.Plural(lemma)
			if allergySet[lemma] || allergySet[plural] {
				continue
			}
			record.Ingredients = appendForms(record.Ingredients, lemma, plural)
		case ner.LabelCategory:
			record.Category = appendForms(record.Category, span.Lemma, e.inflect.Plural(span.Lemma))
		case ner.LabelDietLabel:
			// Last occurrence wins.
			record.Diet = capitalize(span.Text)
		case ner.LabelRatingValue:
			record.MinRating = digitRun(span.Text)
		case ner.LabelTime:
			if strings.Contains(span.Text, "minute") {
				record.MaxTime = digitRun(span.Text)
			}
		}
	}

	return record
}

// Restaurant builds a restaurant criteria record from the tagged spans.
// The city is supplied by the caller and passed through verbatim; when
// several cuisines appear the last one wins.
func (e *Extractor) Restaurant(spans []ner.Span, city string) Restaurant {
	record := Restaurant{City: city}

	for _, span := range spans {
		switch span.Label {
		case ner.LabelCuisine:
			record.Cuisine = capitalize(span.Text)
		case ner.LabelRatingValue:
			record.MinRating = digitRun(span.Text)
		case ner.LabelTime:
			if strings.Contains(span.Text, "minute") {
				record.MaxTime = digitRun(span.Text)
			}
		}
	}

	return record
}

// appendForms appends the singular and plural forms, collapsing the pair
// when they coincide (uncountables like "rice").
func appendForms(list []string, singular, plural string) []string {
	list = append(list, singular)
	if plural != singular {
		list = append(list, plural)
	}
	return list
}

// normalizeTerms lowercases and trims the externally supplied allergy
// terms; nil input becomes an empty set.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// digitRun parses the digits of s as an integer, nil when s has none.
func digitRun(s string) *int {
	n := 0
	found := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	if !found {
		return nil
	}
	return &n
}
