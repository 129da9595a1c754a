package domain

type ExtractedDocument struct {
	Filename   string `json:"filename,omitempty"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Text       string `json:"text"`
}
