// Package prompt renders the embedded single-turn prompt templates.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFS embed.FS

// Template names.
const (
	Books   = "books"
	Grammar = "grammar"
)

var templates = template.Must(template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "templates/*.md"))

// Render fills the named template's only substitution point with text.
func Render(name, text string) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name+".md", struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// BookRecommendations builds the books prompt for the user's reading preferences.
func BookRecommendations(text string) (string, error) {
	return Render(Books, text)
}

// GrammarCheck builds the text analysis prompt.
func GrammarCheck(text string) (string, error) {
	return Render(Grammar, text)
}
