// Package dialogue orchestrates one conversational turn: it classifies
// the user's intent, extracts search criteria where relevant, and
// routes to the canned responders, the question answerer, or the graph
// search pipeline.
package dialogue

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
)

// ErrEmptyQuery is returned when a turn arrives without query text.
var ErrEmptyQuery = errors.New("no query provided")

// Request is one user turn plus the profile facts the client sends
// along with it.
type Request struct {
	Query     string
	Allergies []string
	City      string
	Name      string
}

// Searcher runs the graph-backed search for the two search intents.
type Searcher interface {
	SearchRecipes(ctx context.Context, query string, rec criteria.Recipe) (string, error)
	SearchRestaurants(ctx context.Context, query string, rest criteria.Restaurant) (string, error)
}
