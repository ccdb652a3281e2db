package queryengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRunner_Run(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody txRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"columns": ["RecipeName", "Rating"],
				"data": [
					{"row": ["Lemon Chicken", 5]},
					{"row": ["Berry Smoothie", 4]}
				]
			}],
			"errors": []
		}`))
	}))
	defer srv.Close()

	runner, err := NewHTTPRunner(HTTPRunnerConfig{
		URL:      srv.URL,
		Username: "neo4j",
		Password: "secret",
	})
	require.NoError(t, err)

	rows, err := runner.Run(context.Background(), "MATCH (r:Recipe) RETURN r.name AS RecipeName, r.rating AS Rating")
	require.NoError(t, err)

	assert.Equal(t, "/db/neo4j/tx/commit", gotPath)
	assert.Equal(t, "neo4j", gotUser)
	assert.Equal(t, "secret", gotPass)
	require.Len(t, gotBody.Statements, 1)
	assert.Contains(t, gotBody.Statements[0].Statement, "MATCH (r:Recipe)")

	require.Len(t, rows, 2)
	assert.Equal(t, "Lemon Chicken", rows[0]["RecipeName"])
	assert.Equal(t, float64(5), rows[0]["Rating"])
	assert.Equal(t, "Berry Smoothie", rows[1]["RecipeName"])
}

func TestHTTPRunner_CypherError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"results": [],
			"errors": [{"code": "Neo.ClientError.Statement.SyntaxError", "message": "Invalid input"}]
		}`))
	}))
	defer srv.Close()

	runner, err := NewHTTPRunner(HTTPRunnerConfig{URL: srv.URL})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "MATCH oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SyntaxError")
}

func TestHTTPRunner_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	runner, err := NewHTTPRunner(HTTPRunnerConfig{URL: srv.URL})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "MATCH (n) RETURN n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPRunner_Schema(t *testing.T) {
	responses := map[string]string{
		"db.labels":            `{"results":[{"columns":["label"],"data":[{"row":["Recipe"]},{"row":["Ingredient"]}]}],"errors":[]}`,
		"db.relationshipTypes": `{"results":[{"columns":["relationshipType"],"data":[{"row":["CONTAINS"]}]}],"errors":[]}`,
		"db.propertyKeys":      `{"results":[{"columns":["propertyKey"],"data":[{"row":["name"]},{"row":["value"]}]}],"errors":[]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req txRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Statements, 1)
		for key, body := range responses {
			if strings.Contains(req.Statements[0].Statement, key) {
				_, _ = w.Write([]byte(body))
				return
			}
		}
		t.Errorf("unexpected statement: %s", req.Statements[0].Statement)
	}))
	defer srv.Close()

	runner, err := NewHTTPRunner(HTTPRunnerConfig{URL: srv.URL})
	require.NoError(t, err)

	schema, err := runner.Schema(context.Background())
	require.NoError(t, err)
	assert.Contains(t, schema, "Node labels: Recipe, Ingredient")
	assert.Contains(t, schema, "Relationship types: CONTAINS")
	assert.Contains(t, schema, "Property keys: name, value")
}

func TestNewHTTPRunner_Validation(t *testing.T) {
	_, err := NewHTTPRunner(HTTPRunnerConfig{})
	require.Error(t, err)

	runner, err := NewHTTPRunner(HTTPRunnerConfig{URL: "http://localhost:7474/"})
	require.NoError(t, err)
	assert.Equal(t, "neo4j", runner.config.Database)
}
