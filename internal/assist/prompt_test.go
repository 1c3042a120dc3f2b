package assist

import "testing"

func TestSuggestPrompt_Verbatim(t *testing.T) {
	// Quotes and newlines in the input are embedded as-is.
	got := SuggestPrompt("Built \"fast\" APIs\nin Go")
	want := "Improve this resume bullet point: \"Built \"fast\" APIs\nin Go\""
	if got != want {
		t.Errorf("SuggestPrompt = %q, want %q", got, want)
	}
}

func TestTailorPrompt_PercentSafe(t *testing.T) {
	got := TailorPrompt("Grow revenue 20%", "Cut costs by 15%s")
	want := "Based on the job description:\nGrow revenue 20%\n\nTailor the following resume:\nCut costs by 15%s"
	if got != want {
		t.Errorf("TailorPrompt = %q, want %q", got, want)
	}
}
