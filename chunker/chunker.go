package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 300
)

// DefaultSeparators are tried in order; the empty separator means a hard
// character cut.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", " ", ""}

type Config struct {
	ChunkSize    int      `yaml:"chunkSize"`
	ChunkOverlap *int     `yaml:"chunkOverlap,omitempty"`
	Separators   []string `yaml:"separators,omitempty"`
}

// Segment is one chunk of a document. Overlap is the tail of the preceding
// segment repeated for retrieval context; Core is the text this segment
// contributes. Concatenating the cores of all segments yields the input.
type Segment struct {
	Overlap string
	Core    string
}

// Overlap returns an overlap setting for Config. A nil overlap means
// DefaultChunkOverlap; zero disables overlapping.
func Overlap(n int) *int {
	return &n
}

func (s Segment) Text() string {
	return s.Overlap + s.Core
}

type Chunker struct {
	size       int
	overlap    int
	separators []string
}

func NewChunker(cfg Config) *Chunker {
	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	overlap := DefaultChunkOverlap
	if cfg.ChunkOverlap != nil {
		overlap = max(*cfg.ChunkOverlap, 0)
	}

	if overlap >= size {
		overlap = size / 5
	}

	separators := cfg.Separators
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	if separators[len(separators)-1] != "" {
		separators = append(append([]string{}, separators...), "")
	}

	return &Chunker{
		size:       size,
		overlap:    overlap,
		separators: separators,
	}
}

// Split returns the chunk texts for text. Whitespace-only input yields nil.
func (c *Chunker) Split(text string) []string {
	segments := c.Segments(text)
	if len(segments) == 0 {
		return nil
	}

	chunks := make([]string, len(segments))
	for i, seg := range segments {
		chunks[i] = seg.Text()
	}

	return chunks
}

func (c *Chunker) Segments(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := c.pieces(text, c.separators)
	return c.merge(pieces)
}

// pieces cuts text into units no longer than the chunk size. Separators stay
// attached to the end of the unit they terminate, so the units concatenate
// back to text.
func (c *Chunker) pieces(text string, separators []string) []string {
	if length(text) <= c.size {
		return []string{text}
	}

	sep := ""
	rest := []string{}
	for i, s := range separators {
		if s == "" {
			break
		}

		if strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return c.hardCut(text)
	}

	var result []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}

		if length(part) <= c.size {
			result = append(result, part)
			continue
		}

		result = append(result, c.pieces(part, rest)...)
	}

	return result
}

func (c *Chunker) hardCut(text string) []string {
	var result []string

	for text != "" {
		n, count := 0, 0
		for n < len(text) && count < c.size {
			_, w := utf8.DecodeRuneInString(text[n:])
			n += w
			count++
		}

		result = append(result, text[:n])
		text = text[n:]
	}

	return result
}

// merge packs pieces greedily into segments of at most size characters.
// After a segment is emitted, trailing pieces of at most overlap characters
// are carried into the next segment.
func (c *Chunker) merge(pieces []string) []Segment {
	var (
		segments []Segment
		window   []string
		lengths  []int
		total    int
		carried  int
	)

	for _, piece := range pieces {
		n := length(piece)

		if total+n > c.size && len(window) > carried {
			segments = append(segments, Segment{
				Overlap: strings.Join(window[:carried], ""),
				Core:    strings.Join(window[carried:], ""),
			})

			for len(window) > 0 && (total > c.overlap || total+n > c.size) {
				total -= lengths[0]
				window = window[1:]
				lengths = lengths[1:]
			}

			carried = len(window)
		}

		window = append(window, piece)
		lengths = append(lengths, n)
		total += n
	}

	if len(window) > carried {
		segments = append(segments, Segment{
			Overlap: strings.Join(window[:carried], ""),
			Core:    strings.Join(window[carried:], ""),
		})
	}

	return segments
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
