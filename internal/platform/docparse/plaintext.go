package docparse

import (
	"context"
	"strings"
)

const defaultChunkSize = 800

// plainTextParser splits already-decoded text into sections on blank-line
// boundaries and into fixed-size chunks for embedding. It exists so the
// pipeline has a working default collaborator for plain-text uploads;
// PDF/DOCX extraction is left to whatever service sits in front of this
// boundary.
type plainTextParser struct {
	chunkSize int
}

// NewPlainTextParser returns a Parser over already-decoded UTF-8 text.
// chunkSize <= 0 uses a sensible default.
func NewPlainTextParser(chunkSize int) Parser {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &plainTextParser{chunkSize: chunkSize}
}

func (p *plainTextParser) Parse(_ context.Context, _ string, raw []byte) (Result, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return Result{
		Sections: splitSections(text),
		Chunks:   splitChunks(text, p.chunkSize),
	}, nil
}

// splitSections treats each blank-line-delimited block as a section,
// naming it after its first line.
func splitSections(text string) []Section {
	var out []Section
	offset := 0
	for _, block := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			offset += len(block) + 2
			continue
		}
		name := trimmed
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			name = trimmed[:idx]
		}
		name = strings.TrimSpace(strings.Trim(name, ":"))
		out = append(out, Section{Name: name, Text: trimmed, Offset: offset})
		offset += len(block) + 2
	}
	return out
}

// splitChunks breaks text into non-overlapping runs of roughly size
// runes, never splitting inside a word when a space is available nearby.
func splitChunks(text string, size int) []Chunk {
	runes := []rune(text)
	var out []Chunk
	for start := 0; start < len(runes); {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			for end > start && runes[end] != ' ' && runes[end] != '\n' {
				end--
			}
			if end == start {
				end = start + size
			}
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, Chunk{Text: chunk, Offset: start})
		}
		start = end
	}
	return out
}
