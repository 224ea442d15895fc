package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text recursively: it splits on the coarsest separator
// present, merges the pieces back into chunks of at most Size characters
// with up to Overlap characters carried between neighbours, and re-splits
// any piece still too large on the next separator.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter. Size must be positive and overlap
// smaller than size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Splitter{size: size, overlap: overlap, separators: defaultSeparators}, nil
}

// Split chunks every document. Ordinals restart at 0 for each document.
func (s *Splitter) Split(docs []core.Document) []core.Chunk {
	var chunks []core.Chunk
	for _, doc := range docs {
		for i, text := range s.SplitText(doc.Content) {
			chunks = append(chunks, core.Chunk{SourcePath: doc.Path, Text: text, Ordinal: i})
		}
	}
	return chunks
}

// SplitText chunks a single text. Whitespace-only text yields no chunks.
func (s *Splitter) SplitText(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = ""
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var out, small []string
	for _, piece := range strings.Split(text, sep) {
		if length(piece) < s.size {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			out = append(out, s.merge(small, sep)...)
			small = nil
		}
		if len(rest) == 0 {
			out = append(out, piece)
		} else {
			out = append(out, s.split(piece, rest)...)
		}
	}
	if len(small) > 0 {
		out = append(out, s.merge(small, sep)...)
	}
	return out
}

// merge joins pieces with sep into chunks no longer than size, starting
// each new chunk with the tail of the previous one up to overlap.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := length(sep)
	var chunks, current []string
	total := 0

	joined := func() {
		if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
			chunks = append(chunks, doc)
		}
	}

	for _, piece := range pieces {
		n := length(piece)
		if total+n+sepIf(len(current) > 0, sepLen) > s.size && len(current) > 0 {
			joined()
			for total > s.overlap || (total+n+sepIf(len(current) > 0, sepLen) > s.size && total > 0) {
				total -= length(current[0]) + sepIf(len(current) > 1, sepLen)
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n + sepIf(len(current) > 1, sepLen)
	}
	joined()
	return chunks
}

func sepIf(cond bool, n int) int {
	if cond {
		return n
	}
	return 0
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
