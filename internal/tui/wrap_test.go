package tui

import (
	"strings"
	"testing"
)

func TestWordWindow(t *testing.T) {
	cases := []struct {
		total, index, start, end int
	}{
		{total: 5, index: 0, start: 0, end: 5},
		{total: 40, index: 3, start: 0, end: 20},
		{total: 40, index: 15, start: 5, end: 25},
		{total: 40, index: 38, start: 28, end: 40},
	}
	for _, tc := range cases {
		start, end := wordWindow(tc.total, tc.index)
		if start != tc.start || end != tc.end {
			t.Fatalf("wordWindow(%d, %d) = %d, %d; want %d, %d", tc.total, tc.index, start, end, tc.start, tc.end)
		}
	}
}

func TestBuildStyledWordsStyles(t *testing.T) {
	words := []string{"one", "two", "three", "four"}
	mistakes := map[int]bool{1: true}
	lines := buildStyledWords(words, 2, func(i int) bool { return mistakes[i] })
	if len(lines) != 1 || len(lines[0]) != 4 {
		t.Fatalf("expected one line of four words, got %v", lines)
	}
	line := lines[0]
	if line[0].s != correctStyle.Render("one") {
		t.Fatalf("expected correct style for completed word")
	}
	if line[1].s != incorrectStyle.Render("two") {
		t.Fatalf("expected mistake style for mistaken word")
	}
	if line[2].s != currentWordStyle.Render("three") {
		t.Fatalf("expected current style for current word")
	}
	if line[3].s != pendingStyle.Render("four") {
		t.Fatalf("expected pending style for upcoming word")
	}
}

func TestBuildStyledWordsTwoLines(t *testing.T) {
	words := strings.Fields(strings.Repeat("w ", 25))
	lines := buildStyledWords(words, 0, func(int) bool { return false })
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(lines[0]) != wordsPerLine || len(lines[1]) != wordsPerLine {
		t.Fatalf("expected %d words per line, got %d and %d", wordsPerLine, len(lines[0]), len(lines[1]))
	}
}

func TestWrapStyledWords(t *testing.T) {
	words := []styledWord{
		{s: "aaa", width: 3},
		{s: "bb", width: 2},
		{s: "cccc", width: 4},
	}
	if got := wrapStyledWords(words, 6); got != "aaa bb\ncccc" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := wrapStyledWords(words, 0); got != "aaa bb cccc" {
		t.Fatalf("unexpected unwrapped %q", got)
	}
	if got := wrapStyledWords([]styledWord{{s: "longword", width: 8}}, 4); got != "longword" {
		t.Fatalf("expected oversized word on its own line, got %q", got)
	}
}

func TestWrapUsesDisplayWidth(t *testing.T) {
	words := []styledWord{
		styleWord("日本", 0, 5, false),
		styleWord("ab", 1, 5, false),
	}
	if words[0].width != 4 {
		t.Fatalf("expected wide runes to count double, got %d", words[0].width)
	}
	if got := wrapStyledWords(words, 6); !strings.Contains(got, "\n") {
		t.Fatalf("expected a line break, got %q", got)
	}
}

func TestTruncateInputKeepsTail(t *testing.T) {
	if got := truncateInput("abcdef", 3); got != "def" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateInput("ab", 3); got != "ab" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
