// Package docparse defines the document-parsing boundary the ingestion
// pipeline calls to turn raw résumé/job-description bytes into ordered
// sections and retrieval chunks. The actual PDF/DOCX extraction is an
// external collaborator; this package only fixes the contract the skill
// extractor builds on.
package docparse

import "context"

// Section is one named region of a parsed document, in document order.
type Section struct {
	Name   string
	Text   string
	Offset int
}

// Chunk is one retrieval-sized slice of a parsed document, independent of
// section boundaries.
type Chunk struct {
	Text   string
	Offset int
}

// Result is the pure output of Parse: a document decomposed for skill
// extraction and embedding.
type Result struct {
	Sections []Section
	Chunks   []Chunk
}

// Parser turns raw document bytes into a Result. Implementations are
// expected to be pure with respect to ctx: no side effects beyond
// whatever bounded external call (e.g. an extraction service) is needed
// to do the parse.
type Parser interface {
	Parse(ctx context.Context, kind string, raw []byte) (Result, error)
}
