// Package chunker splits document text into overlapping segments sized for
// the QA backend's context window, preferring sentence boundaries.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// sentenceLookback is how far back from the window end we search for a
	// sentence terminator before giving up and cutting hard.
	sentenceLookback = 200
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize replaces non-printable, non-whitespace runes with a single
// space, collapses whitespace runs, and trims the ends.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
}

// Split normalizes text and cuts it into chunks of at most chunkSize runes,
// consecutive chunks overlapping by roughly overlap runes. Within the last
// 200 runes of each window it searches backward for '.', '!' or '?' followed
// by whitespace or end-of-text and cuts there; otherwise it cuts at
// chunkSize exactly. The final remainder is emitted even when short.
func Split(text string, chunkSize, overlap int) []string {
	runes := []rune(Normalize(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := -1
		low := end - sentenceLookback
		if low < start {
			low = start
		}
		for i := end - 1; i > low; i-- {
			if isTerminator(runes[i]) && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1])) {
				cut = i + 1
				break
			}
		}

		if cut != -1 {
			chunks = append(chunks, string(runes[start:cut]))
			start = cut - overlap
		} else {
			chunks = append(chunks, string(runes[start:end]))
			start = end - overlap
		}
	}
	return chunks
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
