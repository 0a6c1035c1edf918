package types

// AnalysisReply holds the sections parsed out of a grammar-check reply.
type AnalysisReply struct {
	GrammarIssues        string `json:"grammar_issues"`
	PunctuationIssues    string `json:"punctuation_issues"`
	StyleSuggestions     string `json:"style_suggestions"`
	CorrectedVersion     string `json:"corrected_version"`
	StyleEnhancedVersion string `json:"style_enhanced_version"`
}

// AnalysisResponse is the success body of the analyze function.
type AnalysisResponse struct {
	AnalysisReply
	RawFeedback string `json:"raw_feedback"`
	Model       string `json:"model"`
	Status      string `json:"status"`
}
