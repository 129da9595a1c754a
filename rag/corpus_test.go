package rag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
)

func TestParseCorpus_PlainRecords(t *testing.T) {
	input := `[
		{"text": "Home loans need a CIBIL score of 700.", "embedding": [1, 0]},
		{"text": "Personal loans are unsecured.", "embedding": [0, 1]}
	]`

	corpus, err := ParseCorpus(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, corpus, 2)
	assert.Equal(t, "Home loans need a CIBIL score of 700.", corpus[0].Text)
	assert.Equal(t, []float32{0, 1}, corpus[1].Embedding)
	assert.Equal(t, 1, corpus[1].ChunkID)
	assert.Equal(t, 2, corpus.Dimensions())
}

func TestParseCorpus_BuilderRecords(t *testing.T) {
	input := `[
		{"filename": "sbi_home.pdf", "chunk_id": 3, "content": "SBI home loan terms.", "embedding": [0.5, 0.5, 0]}
	]`

	corpus, err := ParseCorpus(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, domain.EmbeddedChunk{
		Text:      "SBI home loan terms.",
		Embedding: []float32{0.5, 0.5, 0},
		Source:    "sbi_home.pdf",
		ChunkID:   3,
	}, corpus[0])
}

func TestParseCorpus_DropsUnusableRecords(t *testing.T) {
	input := `[
		{"text": "   ", "embedding": [1]},
		{"text": "no vector"},
		{"text": "kept", "embedding": [1]}
	]`

	corpus, err := ParseCorpus(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, "kept", corpus[0].Text)
}

func TestParseCorpus_InvalidJSON(t *testing.T) {
	_, err := ParseCorpus(strings.NewReader(`{"text": "not an array"}`))

	assert.Error(t, err)
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text": "a", "embedding": [1, 2]}]`), 0o600))

	corpus, err := LoadCorpus(path)

	require.NoError(t, err)
	assert.Len(t, corpus, 1)
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.json"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCorpusWith_DoesNotModifyReceiver(t *testing.T) {
	base := make(Corpus, 1, 4)
	base[0] = domain.EmbeddedChunk{Text: "base"}

	merged := base.With(domain.EmbeddedChunk{Text: "doc"})

	require.Len(t, merged, 2)
	assert.Equal(t, "doc", merged[1].Text)
	assert.Len(t, base, 1)
	assert.Equal(t, "", base[:2][1].Text)
}
