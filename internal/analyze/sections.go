package analyze

import (
	"regexp"
	"strings"

	"github.com/n0madic/go-bookrec/internal/types"
)

// Section headers the grammar prompt asks the model to use, in order.
const (
	HeaderGrammar       = "GRAMMAR ISSUES:"
	HeaderPunctuation   = "PUNCTUATION ISSUES:"
	HeaderStyle         = "STYLE SUGGESTIONS:"
	HeaderCorrected     = "CORRECTED VERSION:"
	HeaderStyleEnhanced = "STYLE ENHANCED VERSION:"
)

var headers = []string{HeaderGrammar, HeaderPunctuation, HeaderStyle, HeaderCorrected, HeaderStyleEnhanced}

// headerRE matches any section header.
var headerRE = regexp.MustCompile(`(?i)(GRAMMAR ISSUES|PUNCTUATION ISSUES|STYLE SUGGESTIONS|CORRECTED VERSION|STYLE ENHANCED VERSION):`)

// ParseSections splits a grammar-check reply on its section headers. Each
// section runs to the next header of any kind. ok is false when the reply
// contains none of the headers.
func ParseSections(feedback string) (reply types.AnalysisReply, ok bool) {
	sections := make(map[string]string, len(headers))
	locs := headerRE.FindAllStringSubmatchIndex(feedback, -1)
	for i, loc := range locs {
		name := strings.ToUpper(feedback[loc[2]:loc[3]]) + ":"
		end := len(feedback)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		// First occurrence wins.
		if _, seen := sections[name]; !seen {
			sections[name] = strings.TrimSpace(feedback[loc[1]:end])
		}
	}
	if len(sections) == 0 {
		return reply, false
	}
	reply.GrammarIssues = sections[HeaderGrammar]
	reply.PunctuationIssues = sections[HeaderPunctuation]
	reply.StyleSuggestions = sections[HeaderStyle]
	reply.CorrectedVersion = sections[HeaderCorrected]
	reply.StyleEnhancedVersion = sections[HeaderStyleEnhanced]
	return reply, true
}
