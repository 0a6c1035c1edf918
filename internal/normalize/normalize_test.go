package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		invocation string
		want       *ExtractedRequest
		wantErr    error
	}{
		{
			name:       "root text",
			invocation: `{"text":"  Dune and Foundation  "}`,
			want:       &ExtractedRequest{Text: "Dune and Foundation", Strategy: StrategyRootText},
		},
		{
			name:       "gateway body string",
			invocation: `{"httpMethod":"POST","resource":"/books","body":"{\"text\":\"Dune\"}"}`,
			want:       &ExtractedRequest{Text: "Dune", Strategy: StrategyBody},
		},
		{
			name:       "body object",
			invocation: `{"httpMethod":"POST","body":{"text":"Dune"}}`,
			want:       &ExtractedRequest{Text: "Dune", Strategy: StrategyBody},
		},
		{
			name:       "body wins over root text",
			invocation: `{"text":"root","body":"{\"text\":\"inner\"}"}`,
			want:       &ExtractedRequest{Text: "inner", Strategy: StrategyBody},
		},
		{
			name:       "null body falls through to root text",
			invocation: `{"httpMethod":"POST","body":null,"text":"root"}`,
			want:       &ExtractedRequest{Text: "root", Strategy: StrategyRootText},
		},
		{
			name:       "numeric text",
			invocation: `{"text":1984}`,
			want:       &ExtractedRequest{Text: "1984", Strategy: StrategyRootText},
		},
		{
			name:       "boolean true text",
			invocation: `{"text":true}`,
			want:       &ExtractedRequest{Text: "true", Strategy: StrategyRootText},
		},
		{
			name:       "boolean false text",
			invocation: `{"text":false}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "zero text",
			invocation: `{"body":{"text":0}}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "nested scan takes first in document order",
			invocation: `{"httpMethod":"POST","resource":"/books","zeta":{"text":"first"},"alpha":{"text":"second"}}`,
			want:       &ExtractedRequest{Text: "first", Strategy: StrategyNestedScan},
		},
		{
			name:       "nested scan skips objects without text",
			invocation: `{"resource":"/books","headers":{"Accept":"*/*"},"payload":{"text":"found"}}`,
			want:       &ExtractedRequest{Text: "found", Strategy: StrategyNestedScan},
		},
		{
			name:       "direct invocation without text",
			invocation: `{"prompt":"Dune"}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "empty body text",
			invocation: `{"httpMethod":"POST","body":"{\"text\":\"   \"}"}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "object text counts as empty",
			invocation: `{"text":{"value":"Dune"}}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "no candidate with gateway markers",
			invocation: `{"httpMethod":"POST","resource":"/books","headers":{"Accept":"*/*"}}`,
			wantErr:    ErrMissingBody,
		},
		{
			name:       "unparseable body string",
			invocation: `{"httpMethod":"POST","body":"text=Dune"}`,
			wantErr:    ErrInvalidBody,
		},
		{
			name:       "array body",
			invocation: `{"httpMethod":"POST","body":"[1,2]"}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "json string body",
			invocation: `{"httpMethod":"POST","body":"\"Dune\""}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "raw number body",
			invocation: `{"httpMethod":"POST","body":42}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "raw boolean body",
			invocation: `{"body":true,"text":"root"}`,
			wantErr:    ErrMissingText,
		},
		{
			name:       "invocation is not an object",
			invocation: `"Dune"`,
			wantErr:    ErrMissingBody,
		},
		{
			name:       "invocation is not JSON",
			invocation: `{text:`,
			wantErr:    ErrMissingBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract([]byte(tt.invocation))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				var ee *ExtractionError
				if !errors.As(err, &ee) || ee.Kind() != ErrorKind {
					t.Fatalf("expected *ExtractionError with kind %q, got %T", ErrorKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractBodyRoundTrip(t *testing.T) {
	texts := []string{
		"Dune",
		`quotes "inside" and \backslashes\`,
		"unicode: Сто лет одиночества, 百年孤独",
		"line\nbreaks\tand tabs",
		"<html> & entities",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"text": text})
			if err != nil {
				t.Fatal(err)
			}
			gateway, err := sjson.SetBytes([]byte(`{"httpMethod":"POST","resource":"/books"}`), "body", string(body))
			if err != nil {
				t.Fatal(err)
			}
			direct, err := sjson.SetBytes([]byte(`{}`), "text", text)
			if err != nil {
				t.Fatal(err)
			}

			fromBody, err := Extract(gateway)
			if err != nil {
				t.Fatalf("gateway extract: %v", err)
			}
			fromRoot, err := Extract(direct)
			if err != nil {
				t.Fatalf("direct extract: %v", err)
			}
			if fromBody.Text != fromRoot.Text {
				t.Fatalf("gateway %q != direct %q", fromBody.Text, fromRoot.Text)
			}
			if fromBody.Text != text {
				t.Fatalf("got %q, want %q", fromBody.Text, text)
			}
		})
	}
}

func TestExtractionErrorMessage(t *testing.T) {
	_, err := Extract([]byte(`{"httpMethod":"POST","resource":"/books","stage":"prod"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if diff := cmp.Diff([]string{"httpMethod", "resource", "stage"}, ee.Keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	want := "missing body: could not find request body with 'text' field (event keys: httpMethod, resource, stage)"
	if err.Error() != want {
		t.Fatalf("message: got %q, want %q", err.Error(), want)
	}
	if IsMissingText(err) {
		t.Fatal("missing body must not be reported as missing text")
	}
}

func TestStrategiesIndividually(t *testing.T) {
	inv := gjson.Parse(`{"httpMethod":"GET","meta":{"text":"nested"}}`)

	if _, ok := MatchBody(inv); ok {
		t.Error("MatchBody should not match without body")
	}
	if _, ok := MatchRootText(inv); ok {
		t.Error("MatchRootText should not match without root text")
	}
	if _, ok := MatchDirect(inv); ok {
		t.Error("MatchDirect should not match a gateway event")
	}
	got, ok := MatchNestedScan(inv)
	if !ok || got.Get("text").String() != "nested" {
		t.Errorf("MatchNestedScan: got %v, %v", got.Raw, ok)
	}

	direct := gjson.Parse(`{"anything":1}`)
	if got, ok := MatchDirect(direct); !ok || got.Raw != direct.Raw {
		t.Errorf("MatchDirect should return the invocation itself")
	}
}

func TestExtractWithCustomOrder(t *testing.T) {
	inv := []byte(`{"text":"root","body":{"text":"body"}}`)
	got, err := ExtractWith([]Strategy{{Name: StrategyRootText, Match: MatchRootText}}, inv)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "root" {
		t.Fatalf("got %q, want %q", got.Text, "root")
	}
}

func TestMethod(t *testing.T) {
	tests := []struct {
		invocation string
		want       string
	}{
		{`{"httpMethod":"options"}`, "OPTIONS"},
		{`{"requestContext":{"http":{"method":"POST"}}}`, "POST"},
		{`{"httpMethod":"GET","requestContext":{"http":{"method":"POST"}}}`, "GET"},
		{`{"text":"direct"}`, ""},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := Method([]byte(tt.invocation)); got != tt.want {
			t.Errorf("Method(%s): got %q, want %q", tt.invocation, got, tt.want)
		}
	}
}
