package prompt

// GetAnalysisPrompt returns an analyst agent's prompt template by role name.
func GetAnalysisPrompt(role string) (*PromptTemplate, error) {
	return Get().GetPrompt("analysis." + role)
}

// PromptIDs contains all known prompt identifiers.
var PromptIDs = struct {
	AnalysisFundamental string
	AnalysisPE          string
	AnalysisTechnical   string
	AnalysisAdvisor     string
}{
	AnalysisFundamental: "analysis.fundamental",
	AnalysisPE:          "analysis.pe",
	AnalysisTechnical:   "analysis.technical",
	AnalysisAdvisor:     "analysis.advisor",
}
