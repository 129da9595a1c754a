package domain

type EmbeddedChunk struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Source    string    `json:"source,omitempty"`
	ChunkID   int       `json:"chunkId"`
}

type ScoredChunk struct {
	Chunk EmbeddedChunk `json:"chunk"`
	Score float64       `json:"score"`
}
