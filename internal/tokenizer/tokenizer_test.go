package tokenizer

import (
	"strings"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "whitespace only", text: "   ", expected: 1},
		{name: "single word", text: "hello", expected: 2},
		{name: "sentence", text: "the quick brown fox", expected: 5},
		{name: "multibyte runes", text: "héllo wörld", expected: 3},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := EstimateTokens(testCase.text); result != testCase.expected {
				t.Fatalf("expected %d, got %d", testCase.expected, result)
			}
		})
	}
}

func TestEstimateTokensIsMonotonic(t *testing.T) {
	previous := 0
	text := ""
	for index := 0; index < 200; index++ {
		if index%3 == 0 {
			text += " word"
		} else {
			text += "x"
		}
		current := EstimateTokens(text)
		if current < previous {
			t.Fatalf("estimate decreased from %d to %d at step %d", previous, current, index)
		}
		previous = current
	}
	if EstimateTokens(strings.Repeat("a ", 100)) < EstimateTokens(strings.Repeat("a ", 50)) {
		t.Fatalf("estimate should grow with word count")
	}
}

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	result, err := CountBytes(testCounter{}, data)
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountBytesNilCounter(t *testing.T) {
	if _, err := CountBytes(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestNewCounterEstimate(t *testing.T) {
	for _, model := range []string{"", "estimate", " Estimate "} {
		counter, err := NewCounter(model)
		if err != nil {
			t.Fatalf("NewCounter(%q) error: %v", model, err)
		}
		if counter.Name() != EstimateModel {
			t.Fatalf("expected estimate counter for %q, got %s", model, counter.Name())
		}
		tokens, _ := counter.CountString("the quick brown fox")
		if tokens != EstimateTokens("the quick brown fox") {
			t.Fatalf("estimate counter disagrees with EstimateTokens")
		}
	}
}

func TestNewCounterTiktoken(t *testing.T) {
	if testing.Short() {
		t.Skip("tiktoken encodings may require a download")
	}
	counter, err := NewCounter("gpt-4o")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	if counter.Name() == EstimateModel {
		t.Fatalf("expected a tiktoken counter for gpt-4o")
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}
