package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/types"
)

func TestReadEventFromText(t *testing.T) {
	invokeText, invokeEvent = `say "hi"`, ""
	t.Cleanup(func() { invokeText = "" })

	got, err := readEvent(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"text":"say \"hi\""}` {
		t.Fatalf("got %s", got)
	}
}

func TestReadEventFromStdin(t *testing.T) {
	invokeText, invokeEvent = "", "-"
	t.Cleanup(func() { invokeEvent = "" })

	got, err := readEvent(strings.NewReader(`{"body":"{}"}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"body":"{}"}` {
		t.Fatalf("got %s", got)
	}
}

func TestReadEventRequiresSource(t *testing.T) {
	invokeText, invokeEvent = "", ""
	if _, err := readEvent(strings.NewReader("")); err == nil {
		t.Fatal("expected error without --event or --text")
	}
}

func TestPrintResponsePrettyJSON(t *testing.T) {
	var out bytes.Buffer
	if err := printResponse(&out, "analyze", codec.MissingText()); err != nil {
		t.Fatal(err)
	}
	want := "HTTP 400\n{\n  \"error\": \"Missing required field: text\",\n  \"status\": \"error\"\n}\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestPrintResponseBookList(t *testing.T) {
	invokeList = true
	t.Cleanup(func() { invokeList = false })

	resp := codec.NewJSON(200, types.RecommendationResponse{
		Analysis:        "Space opera fan.",
		Recommendations: []byte(`[{"title":"Hyperion","author":"Dan Simmons","publication_year":1989}]`),
		Reasoning:       "Scope.",
		Status:          types.StatusSuccess,
	})
	var out bytes.Buffer
	if err := printResponse(&out, "books", resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), " 1. Hyperion by Dan Simmons (1989)\n") {
		t.Fatalf("list output: %q", out.String())
	}
}
