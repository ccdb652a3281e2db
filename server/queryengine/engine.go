package queryengine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/plugin/ai"
	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
)

// Engine is the graph-backed search pipeline for the two search
// intents. One Engine serves all sessions.
type Engine struct {
	llm    ai.Completer
	runner CypherRunner
}

// NewEngine creates a query engine on top of an LLM and a graph runner.
func NewEngine(llm ai.Completer, runner CypherRunner) *Engine {
	return &Engine{llm: llm, runner: runner}
}

// SearchRecipes answers a recipe query. The extracted ingredient list
// is appended to the question as an explicit hint so the generated
// Cypher filters on every ingredient the user actually named.
func (e *Engine) SearchRecipes(ctx context.Context, query string, rec criteria.Recipe) (string, error) {
	augmented := query
	if len(rec.Ingredients) > 0 {
		augmented += fmt.Sprintf(" Please make sure the cypher query checks for these ingredients: %s.",
			strings.Join(rec.Ingredients, ", "))
	}
	return e.search(ctx, augmented)
}

// SearchRestaurants answers a restaurant query, hinting the generated
// Cypher with the city, rating floor and wait-time ceiling when the
// turn supplied them.
func (e *Engine) SearchRestaurants(ctx context.Context, query string, rest criteria.Restaurant) (string, error) {
	augmented := query
	if rest.City != "" {
		augmented += fmt.Sprintf(" The user is looking for restaurants in %s.", rest.City)
	}
	if rest.MinRating != nil {
		augmented += fmt.Sprintf(" Only include restaurants rated at least %d stars.", *rest.MinRating)
	}
	if rest.MaxTime != nil {
		augmented += fmt.Sprintf(" Only include restaurants with a wait time of at most %d minutes.", *rest.MaxTime)
	}
	return e.search(ctx, augmented)
}

// search runs the generate-execute-summarize pipeline for one question.
func (e *Engine) search(ctx context.Context, question string) (string, error) {
	start := time.Now()

	schema, err := e.runner.Schema(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch graph schema")
	}

	generated, err := e.llm.Complete(ctx, cypherGenerationInput(schema, question), cypherGenerationInstruction, 0)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate cypher")
	}
	cypher := stripCodeFences(generated)
	if cypher == "" {
		return "", errors.New("model returned an empty cypher statement")
	}

	rows, err := e.runner.Run(ctx, cypher)
	if err != nil {
		return "", errors.Wrap(err, "cypher execution failed")
	}

	graphContext, err := encodeRows(rows)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode graph results")
	}

	answer, err := e.llm.Complete(ctx, qaInput(question, graphContext), qaInstruction, 0)
	if err != nil {
		return "", errors.Wrap(err, "failed to summarize graph results")
	}

	slog.Debug("graph search completed",
		"cypher", cypher,
		"rows", len(rows),
		"latency_ms", time.Since(start).Milliseconds())
	return answer, nil
}

// stripCodeFences unwraps a markdown-fenced model reply. Models often
// fence generated Cypher even when told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
		// Drop a language tag such as "cypher" on the fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// encodeRows renders result rows as compact JSON for the QA prompt.
func encodeRows(rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
