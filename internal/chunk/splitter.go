// Package chunk splits extracted document text into fixed-size
// overlapping spans for embedding and retrieval.
package chunk

import "strings"

// Chunking geometry is fixed for reproducibility: the same text must
// always produce the same chunks.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Splitter produces overlapping text chunks
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter. Non-positive size falls back to the
// defaults; overlap is clamped below size.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Splitter{size: size, overlap: overlap}
}

// Split cuts text into chunks of at most s.size runes, each starting
// s.size-s.overlap runes after the previous one. Whitespace-only input
// yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.size {
		return []string{text}
	}

	step := s.size - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
