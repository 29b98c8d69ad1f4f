package corpus

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNewTextSplitsOnSingleSpaces(t *testing.T) {
	text := NewText("the quick fox")
	if text.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", text.Len())
	}
	if text.Word(1) != "quick" {
		t.Fatalf("unexpected word: %q", text.Word(1))
	}
	words := text.Words()
	words[0] = "changed"
	if text.Word(0) != "the" {
		t.Fatalf("expected Words to return a copy")
	}
}

func TestPickerPicksFromTexts(t *testing.T) {
	p := NewPicker(rand.New(rand.NewSource(1)), []string{"a b", "c d e"})
	for i := 0; i < 10; i++ {
		text := p.Pick()
		if text.String() != "a b" && text.String() != "c d e" {
			t.Fatalf("unexpected pick: %q", text.String())
		}
	}
}

func TestBuiltInTextsAreSingleSpaced(t *testing.T) {
	all := Texts()
	if len(all) == 0 {
		t.Fatalf("expected built-in texts")
	}
	for _, raw := range all {
		if strings.Contains(raw, "  ") || strings.TrimSpace(raw) != raw {
			t.Fatalf("text would produce empty tokens: %q", raw)
		}
		for _, w := range NewText(raw).Words() {
			if w == "" {
				t.Fatalf("empty token in %q", raw)
			}
		}
	}
}
