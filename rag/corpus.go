package rag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"loan-advisor/domain"
)

// Corpus is a read-only set of embedded chunks, loaded once at startup.
type Corpus []domain.EmbeddedChunk

// corpusRecord accepts both the plain {text, embedding} shape and the
// {filename, chunk_id, content, embedding} shape written by the corpus builder.
type corpusRecord struct {
	Text      string    `json:"text"`
	Content   string    `json:"content"`
	Filename  string    `json:"filename"`
	ChunkID   int       `json:"chunk_id"`
	Embedding []float32 `json:"embedding"`
}

// LoadCorpus reads a JSON array of corpus records from path.
func LoadCorpus(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	corpus, err := ParseCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return corpus, nil
}

// ParseCorpus decodes a JSON array of corpus records. Records without text or
// without an embedding are dropped.
func ParseCorpus(r io.Reader) (Corpus, error) {
	var records []corpusRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	corpus := make(Corpus, 0, len(records))
	for i, rec := range records {
		text := rec.Text
		if text == "" {
			text = rec.Content
		}
		if strings.TrimSpace(text) == "" || len(rec.Embedding) == 0 {
			continue
		}

		chunkID := rec.ChunkID
		if rec.Filename == "" {
			chunkID = i
		}
		corpus = append(corpus, domain.EmbeddedChunk{
			Text:      text,
			Embedding: rec.Embedding,
			Source:    rec.Filename,
			ChunkID:   chunkID,
		})
	}
	return corpus, nil
}

// With returns a new corpus holding c followed by extra. c is not modified.
func (c Corpus) With(extra ...domain.EmbeddedChunk) Corpus {
	if len(extra) == 0 {
		return c
	}
	return slices.Concat(c, Corpus(extra))
}

// Dimensions reports the embedding width of the first chunk, or 0.
func (c Corpus) Dimensions() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0].Embedding)
}
