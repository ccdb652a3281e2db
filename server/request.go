package server

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// StringList is a []string that also accepts a single JSON string, so
// clients can send `"allergies": "peanut"` or `"allergies": ["peanut"]`
// interchangeably.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = []string{single}
		}
		return nil
	}
	return errors.New("expected a string or a list of strings")
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query     string     `json:"query"`
	Allergies StringList `json:"allergies"`
	City      string     `json:"city"`
	Name      string     `json:"name"`
}

// QueryResponse is the success body of POST /query.
type QueryResponse struct {
	Result string `json:"result"`
}
