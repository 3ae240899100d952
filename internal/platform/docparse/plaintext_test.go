package docparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextParserSplitsSectionsOnBlankLines(t *testing.T) {
	text := "Experience\nSenior Engineer at Acme\n\nEducation\nBS Computer Science"
	p := NewPlainTextParser(0)
	res, err := p.Parse(context.Background(), "resume", []byte(text))
	require.NoError(t, err)
	require.Len(t, res.Sections, 2)
	require.Equal(t, "Experience", res.Sections[0].Name)
	require.Equal(t, "Education", res.Sections[1].Name)
}

func TestPlainTextParserChunksRespectSize(t *testing.T) {
	text := ""
	for i := 0; i < 50; i++ {
		text += "word "
	}
	p := NewPlainTextParser(20)
	res, err := p.Parse(context.Background(), "jd", []byte(text))
	require.NoError(t, err)
	require.Greater(t, len(res.Chunks), 1)
	for _, c := range res.Chunks {
		require.LessOrEqual(t, len(c.Text), 25)
	}
}

func TestPlainTextParserEmptyInput(t *testing.T) {
	p := NewPlainTextParser(0)
	res, err := p.Parse(context.Background(), "resume", []byte(""))
	require.NoError(t, err)
	require.Empty(t, res.Sections)
	require.Empty(t, res.Chunks)
}
