package rag

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the chunk length, in characters, used for attached documents.
const DefaultChunkSize = 1000

// ChunkText packs whitespace-separated words into chunks of at most maxChars
// characters. Words longer than maxChars are split. Whitespace runs collapse
// to a single space.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}

	var (
		chunks []string
		b      strings.Builder
		size   int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxChars {
			flush()
			head, tail := splitRunes(word, maxChars)
			chunks = append(chunks, head)
			word = tail
		}

		n := utf8.RuneCountInString(word)
		if size > 0 && size+1+n > maxChars {
			flush()
		}
		if size > 0 {
			b.WriteByte(' ')
			size++
		}
		b.WriteString(word)
		size += n
	}
	flush()

	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
