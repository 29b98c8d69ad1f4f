package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const wordsPerLine = 10

type styledWord struct {
	s     string
	width int
}

// wordWindow returns the bounds of the two visible lines around index.
func wordWindow(total, index int) (start, end int) {
	start = index - wordsPerLine
	if start < 0 {
		start = 0
	}
	end = start + wordsPerLine*2
	if end > total {
		end = total
	}
	return start, end
}

func buildStyledWords(words []string, index int, isMistake func(int) bool) [][]styledWord {
	start, end := wordWindow(len(words), index)
	lines := [][]styledWord{}
	for lineStart := start; lineStart < end; lineStart += wordsPerLine {
		lineEnd := lineStart + wordsPerLine
		if lineEnd > end {
			lineEnd = end
		}
		line := make([]styledWord, 0, lineEnd-lineStart)
		for i := lineStart; i < lineEnd; i++ {
			line = append(line, styleWord(words[i], i, index, isMistake(i)))
		}
		lines = append(lines, line)
	}
	return lines
}

func styleWord(word string, i, index int, mistake bool) styledWord {
	style := pendingStyle
	switch {
	case i == index:
		style = currentWordStyle
	case mistake:
		style = incorrectStyle
	case i < index:
		style = correctStyle
	}
	return styledWord{s: style.Render(word), width: runewidth.StringWidth(word)}
}

func renderStyledWords(words []styledWord) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.s
	}
	return strings.Join(parts, " ")
}

// wrapStyledWords breaks words into lines no wider than width. A word
// wider than width gets a line of its own.
func wrapStyledWords(words []styledWord, width int) string {
	if width <= 0 {
		return renderStyledWords(words)
	}
	var out strings.Builder
	line := make([]styledWord, 0, len(words))
	lineWidth := 0
	for _, w := range words {
		needed := w.width
		if len(line) > 0 {
			needed++
		}
		if lineWidth+needed > width && len(line) > 0 {
			out.WriteString(renderStyledWords(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			needed = w.width
		}
		line = append(line, w)
		lineWidth += needed
	}
	out.WriteString(renderStyledWords(line))
	return out.String()
}

func truncateInput(input string, width int) string {
	if width <= 0 || runewidth.StringWidth(input) <= width {
		return input
	}
	runes := []rune(input)
	for len(runes) > 0 && runewidth.StringWidth(string(runes)) > width {
		runes = runes[1:]
	}
	return string(runes)
}
