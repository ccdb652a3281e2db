// Package queryengine turns extracted search criteria into graph
// queries: it augments the user's question with criteria hints, asks
// the LLM for a Cypher statement against the live schema, runs it, and
// summarizes the rows into a conversational answer.
package queryengine

import "context"

// CypherRunner executes Cypher against the food knowledge graph. The
// graph itself is an external collaborator; implementations only need
// read access.
type CypherRunner interface {
	// Schema describes the graph's node labels, properties and
	// relationships in a form suitable for prompting.
	Schema(ctx context.Context) (string, error)

	// Run executes a Cypher statement and returns one map per result row,
	// keyed by the RETURN column names.
	Run(ctx context.Context, cypher string) ([]map[string]any, error)
}
