package errors

// SuggestionGenerator generates operator suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns suggestions for the given category.
func (g *suggestionGenerator) Generate(category ErrorCategory) []string {
	switch category {
	case CategoryJSON:
		return []string{
			"Check that the status producer emits one JSON object per line",
			"Convert plist output to JSON before piping it to the helper",
		}
	case CategoryData:
		return []string{
			"Check that Progress counters are numbers, not null or text",
			"Verify the status producer version reports the expected fields",
		}
	case CategoryUnexpected:
		return []string{
			"Ensure each line is a JSON object with an object-valued Progress field",
		}
	default:
		return nil
	}
}
