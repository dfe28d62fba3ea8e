package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func longText() string {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
		b.WriteString("Pack my box with five dozen liquor jugs? ")
		if i%7 == 6 {
			b.WriteString("\n\n")
		} else if i%3 == 2 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func TestSplitEmpty(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{})

	assert.Nil(c.Split(""))
	assert.Nil(c.Split("  \n\t \n\n "))
	assert.Nil(c.Segments("   "))
}

func TestSplitShortText(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{})

	chunks := c.Split("Alpha beta. Gamma delta.")
	assert.Equal([]string{"Alpha beta. Gamma delta."}, chunks)
}

func TestSegmentsBounds(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{ChunkSize: 200, ChunkOverlap: Overlap(50)})

	text := longText()
	segments := c.Segments(text)
	assert.Greater(len(segments), 1)

	var cores strings.Builder
	for i, seg := range segments {
		assert.LessOrEqual(utf8.RuneCountInString(seg.Core), 200, "segment %d", i)
		assert.LessOrEqual(utf8.RuneCountInString(seg.Overlap), 50, "segment %d", i)
		assert.LessOrEqual(utf8.RuneCountInString(seg.Text()), 200, "segment %d", i)
		assert.NotEmpty(seg.Core)

		if i == 0 {
			assert.Empty(seg.Overlap)
		} else {
			assert.True(strings.HasSuffix(segments[i-1].Text(), seg.Overlap))
		}

		cores.WriteString(seg.Core)
	}

	assert.Equal(text, cores.String())
}

func TestSegmentsHardCut(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{ChunkSize: 10, ChunkOverlap: Overlap(3)})

	text := strings.Repeat("é", 35)
	segments := c.Segments(text)

	var cores strings.Builder
	for _, seg := range segments {
		assert.LessOrEqual(utf8.RuneCountInString(seg.Text()), 10)
		assert.True(utf8.ValidString(seg.Core))
		cores.WriteString(seg.Core)
	}

	assert.Equal(text, cores.String())
	assert.Len(segments, 4)
}

func TestSplitDeterministic(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{ChunkSize: 120, ChunkOverlap: Overlap(30)})

	text := longText()
	assert.Equal(c.Split(text), c.Split(text))
	assert.Equal(c.Split(text), NewChunker(Config{ChunkSize: 120, ChunkOverlap: Overlap(30)}).Split(text))
}

func TestSplitPrefersParagraphs(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{ChunkSize: 30, ChunkOverlap: Overlap(0)})

	text := "first paragraph here.\n\nsecond paragraph here."
	chunks := c.Split(text)

	assert.Equal([]string{"first paragraph here.\n\n", "second paragraph here."}, chunks)
}

func TestNewChunkerDefaults(t *testing.T) {
	assert := assert.New(t)

	c := NewChunker(Config{ChunkOverlap: Overlap(-1)})
	assert.Equal(DefaultChunkSize, c.size)
	assert.Equal(0, c.overlap)

	c = NewChunker(Config{ChunkSize: 100, ChunkOverlap: Overlap(100)})
	assert.Equal(20, c.overlap)

	c = NewChunker(Config{ChunkSize: 2000})
	assert.Equal(DefaultChunkOverlap, c.overlap)

	c = NewChunker(Config{ChunkSize: 2000, ChunkOverlap: Overlap(0)})
	assert.Equal(0, c.overlap)

	c = NewChunker(Config{Separators: []string{"\n"}})
	assert.Equal([]string{"\n", ""}, c.separators)
}
