package textprep

import (
	"strings"
	"testing"
)

func TestCleanText_DropsPageNumbersAndFragments(t *testing.T) {
	input := "Introduction to Python\n\n42\n\nab\n\nVariables and Data Types\n  7  \nLoops"
	got := CleanText(input)
	want := "Introduction to Python\nVariables and Data Types\nLoops"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCleanText_TrimsWhitespace(t *testing.T) {
	got := CleanText("   Topic One   \n\t Topic Two \t")
	if got != "Topic One\nTopic Two" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestCleanText_EmptyInput(t *testing.T) {
	if got := CleanText(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := CleanText("\n\n  \n"); got != "" {
		t.Errorf("expected empty output for blank lines, got %q", got)
	}
}

func TestEstimateTokens_Empty(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 tokens for empty string, got %d", got)
	}
}

func TestEstimateTokens_ScalesWithWords(t *testing.T) {
	short := EstimateTokens("one two three")
	long := EstimateTokens(strings.Repeat("word ", 100))
	if short <= 0 {
		t.Errorf("expected positive token count, got %d", short)
	}
	if long <= short {
		t.Errorf("expected more tokens for longer text: short=%d long=%d", short, long)
	}
}

func TestTruncateToTokens_ShortTextUnchanged(t *testing.T) {
	text := "A short sentence. Another one."
	if got := TruncateToTokens(text, 1000); got != text {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestTruncateToTokens_CutsAtSentenceBoundary(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This is a filler sentence with several words in it. ")
	}
	text := b.String()

	got := TruncateToTokens(text, 50)
	if EstimateTokens(got) > 60 {
		t.Errorf("expected truncation near 50 tokens, got %d", EstimateTokens(got))
	}
	if !strings.HasSuffix(strings.TrimSpace(got), ".") {
		t.Errorf("expected truncation at a sentence boundary, got suffix %q", got[len(got)-20:])
	}
}

func TestTruncateToTokens_KeepsFirstSentence(t *testing.T) {
	// A single oversized sentence is kept rather than emitting nothing.
	text := strings.Repeat("word ", 200) + "end"
	got := TruncateToTokens(text, 10)
	if got == "" {
		t.Error("expected at least one sentence to survive truncation")
	}
}
