package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Response status markers.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ModelReply is the structured JSON object the model authors for book
// recommendations. Recommendations is kept raw so entries pass through untouched.
type ModelReply struct {
	Analysis        string          `json:"analysis"`
	Recommendations json.RawMessage `json:"recommendations"`
	Reasoning       string          `json:"reasoning"`
}

// RecommendationResponse is the success body of the books function.
type RecommendationResponse struct {
	Analysis        string          `json:"analysis"`
	Recommendations json.RawMessage `json:"recommendations"`
	Reasoning       string          `json:"reasoning"`
	RawResponse     string          `json:"raw_response"`
	Model           string          `json:"model"`
	Status          string          `json:"status"`
}

// Books decodes the recommendations into typed entries. Entries that are not
// objects are skipped.
func (r *RecommendationResponse) Books() []BookRecommendation {
	var raw []json.RawMessage
	if err := json.Unmarshal(r.Recommendations, &raw); err != nil {
		return nil
	}
	out := make([]BookRecommendation, 0, len(raw))
	for _, item := range raw {
		var b BookRecommendation
		if err := json.Unmarshal(item, &b); err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// BookRecommendation is a single recommended book.
type BookRecommendation struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear Year   `json:"publication_year"`
}

func (b BookRecommendation) String() string {
	if b.PublicationYear == "" {
		return fmt.Sprintf("%s by %s", b.Title, b.Author)
	}
	return fmt.Sprintf("%s by %s (%s)", b.Title, b.Author, b.PublicationYear)
}

// Year accepts both "1965" and 1965 from model output.
type Year string

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*y = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("publication_year: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*y = Year(strconv.FormatInt(i, 10))
		return nil
	}
	*y = Year(n.String())
	return nil
}

// ErrorResponse is the error body shared by every function.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
	Status    string `json:"status"`
}
