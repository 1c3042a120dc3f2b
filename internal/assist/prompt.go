package assist

import "fmt"

const (
	suggestTemplate = `Improve this resume bullet point: "%s"`
	tailorTemplate  = "Based on the job description:\n%s\n\nTailor the following resume:\n%s"
)

// SuggestPrompt embeds a resume bullet point verbatim in the improvement instruction.
func SuggestPrompt(text string) string {
	return fmt.Sprintf(suggestTemplate, text)
}

// TailorPrompt embeds the job description, then the base resume, verbatim.
func TailorPrompt(jobDescription, baseResume string) string {
	return fmt.Sprintf(tailorTemplate, jobDescription, baseResume)
}
