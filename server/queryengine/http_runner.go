package queryengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// HTTPRunnerConfig configures the Neo4j HTTP transactional endpoint
// client.
type HTTPRunnerConfig struct {
	// URL is the server base URL, e.g. "http://localhost:7474".
	URL      string
	Username string
	Password string
	// Database defaults to "neo4j".
	Database string
	// Timeout bounds each request (default 15s).
	Timeout time.Duration
}

// HTTPRunner executes Cypher through Neo4j's tx/commit HTTP API.
type HTTPRunner struct {
	config HTTPRunnerConfig
	client *http.Client
}

var _ CypherRunner = (*HTTPRunner)(nil)

// NewHTTPRunner creates a runner against a Neo4j HTTP endpoint.
func NewHTTPRunner(cfg HTTPRunnerConfig) (*HTTPRunner, error) {
	if cfg.URL == "" {
		return nil, errors.New("graph URL is required")
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &HTTPRunner{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type txRequest struct {
	Statements []txStatement `json:"statements"`
}

type txStatement struct {
	Statement string `json:"statement"`
}

type txResponse struct {
	Results []struct {
		Columns []string `json:"columns"`
		Data    []struct {
			Row []any `json:"row"`
		} `json:"data"`
	} `json:"results"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Run executes one Cypher statement in an auto-committed transaction.
func (r *HTTPRunner) Run(ctx context.Context, cypher string) ([]map[string]any, error) {
	body, err := json.Marshal(txRequest{Statements: []txStatement{{Statement: cypher}}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode statement")
	}

	endpoint := fmt.Sprintf("%s/db/%s/tx/commit", strings.TrimRight(r.config.URL, "/"), r.config.Database)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.config.Username != "" {
		req.SetBasicAuth(r.config.Username, r.config.Password)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "graph request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("graph returned status %d", resp.StatusCode)
	}

	var parsed txResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode graph response")
	}
	if len(parsed.Errors) > 0 {
		first := parsed.Errors[0]
		return nil, errors.Errorf("cypher failed: %s: %s", first.Code, first.Message)
	}
	if len(parsed.Results) == 0 {
		return []map[string]any{}, nil
	}

	result := parsed.Results[0]
	rows := make([]map[string]any, 0, len(result.Data))
	for _, d := range result.Data {
		row := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(d.Row) {
				row[col] = d.Row[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Schema summarizes the graph's labels, relationship types and property
// keys as prompt text.
func (r *HTTPRunner) Schema(ctx context.Context) (string, error) {
	labels, err := r.column(ctx, "CALL db.labels() YIELD label RETURN label")
	if err != nil {
		return "", errors.Wrap(err, "failed to list labels")
	}
	relTypes, err := r.column(ctx, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType")
	if err != nil {
		return "", errors.Wrap(err, "failed to list relationship types")
	}
	props, err := r.column(ctx, "CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey")
	if err != nil {
		return "", errors.Wrap(err, "failed to list property keys")
	}

	var b strings.Builder
	b.WriteString("Node labels: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\nRelationship types: ")
	b.WriteString(strings.Join(relTypes, ", "))
	b.WriteString("\nProperty keys: ")
	b.WriteString(strings.Join(props, ", "))
	return b.String(), nil
}

// column runs a single-column query and returns the values as strings.
func (r *HTTPRunner) column(ctx context.Context, cypher string) ([]string, error) {
	rows, err := r.Run(ctx, cypher)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
	}
	return values, nil
}
