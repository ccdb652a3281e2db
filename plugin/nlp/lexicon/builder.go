package lexicon

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gertd/go-pluralize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
)

// Builder turns the knowledge-store vocabulary into a pattern table.
type Builder struct {
	source  Source
	inflect *pluralize.Client
}

// NewBuilder creates a builder over the given vocabulary source.
func NewBuilder(source Source) *Builder {
	return &Builder{
		source:  source,
		inflect: pluralize.NewClient(),
	}
}

// Build fetches the three vocabulary collections and expands them into
// patterns: one per cuisine term, two per ingredient/category term
// (singular and plural, both carrying the singular lemma). Any source
// failure aborts the whole build; there is no partial lexicon.
func (b *Builder) Build(ctx context.Context) ([]ner.Pattern, error) {
	start := time.Now()

	var ingredients, cuisines, categories []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ingredients, err = b.source.ListIngredients(gctx)
		return errors.Wrap(err, "list ingredients")
	})
	g.Go(func() error {
		var err error
		cuisines, err = b.source.ListCuisines(gctx)
		return errors.Wrap(err, "list cuisines")
	})
	g.Go(func() error {
		var err error
		categories, err = b.source.ListCategories(gctx)
		return errors.Wrap(err, "list categories")
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to build lexicon")
	}

	patterns := ner.FixedPatterns()

	for _, cuisine := range cuisines {
		term := strings.ToLower(cuisine)
		patterns = append(patterns, ner.TermPattern(ner.LabelCuisine, term, term))
	}
	for _, ingredient := range ingredients {
		patterns = append(patterns, b.termPatterns(ner.LabelIngredient, ingredient)...)
	}
	for _, category := range categories {
		patterns = append(patterns, b.termPatterns(ner.LabelCategory, category)...)
	}

	slog.Info("lexicon built",
		"ingredients", len(ingredients),
		"cuisines", len(cuisines),
		"categories", len(categories),
		"patterns", len(patterns),
		"latency_ms", time.Since(start).Milliseconds())

	return patterns, nil
}

// termPatterns expands a term into its singular and plural pattern entries,
// both labeled identically and normalized to the singular lemma.
func (b *Builder) termPatterns(label ner.Label, term string) []ner.Pattern {
	term = strings.ToLower(term)

	singular := term
	if b.inflect.IsPlural(term) {
		singular = b.inflect.Singular(term)
	}
	plural := b.inflect.Plural(singular)

	patterns := []ner.Pattern{ner.TermPattern(label, singular, singular)}
	if plural != singular {
		patterns = append(patterns, ner.TermPattern(label, plural, singular))
	}
	return patterns
}
