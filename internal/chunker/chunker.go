// Package chunker splits sanitized HTML into ordered pieces that fit a
// length budget, cutting only in front of block-level start tags.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the translation budget per chunk, in characters.
const DefaultMaxLength = 3000

// blockStartPattern matches the start tag of a block-level element.
var blockStartPattern = regexp.MustCompile(`(?i)<(?:p|div|blockquote|h[1-6]|li|tr|section|article|figure|figcaption|pre|ul|ol|table)[\s>]`)

// Chunk is one ordered piece of a document.
type Chunk struct {
	Index   int
	Content string
	Length  int // in runes
}

// Split breaks html into chunks of at most maxLen characters where possible.
//
// Chunks always start at a block-level start tag (except the first, which
// also carries any prologue), so joining them in order reproduces html
// exactly. A single block longer than maxLen becomes its own chunk rather
// than being cut. Inputs with fewer than two block tags, and maxLen <= 0,
// yield the whole input as one chunk.
func Split(html string, maxLen int) []string {
	if maxLen <= 0 {
		return []string{html}
	}

	matches := blockStartPattern.FindAllStringIndex(html, -1)
	if len(matches) < 2 {
		return []string{html}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for i, m := range matches {
		end := len(html)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segment := html[m[0]:end]
		segmentLen := utf8.RuneCountInString(segment)

		if currentLen > 0 && currentLen+segmentLen > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		current.WriteString(segment)
		currentLen += segmentLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	// Prologue is not counted against the budget
	if prologue := html[:matches[0][0]]; prologue != "" {
		chunks[0] = prologue + chunks[0]
	}

	return chunks
}

// Chunks is Split with each piece annotated by position and length.
func Chunks(html string, maxLen int) []Chunk {
	parts := Split(html, maxLen)
	out := make([]Chunk, len(parts))
	for i, part := range parts {
		out[i] = Chunk{
			Index:   i,
			Content: part,
			Length:  utf8.RuneCountInString(part),
		}
	}
	return out
}
