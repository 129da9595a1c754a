package domain

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatReply struct {
	Content  string `json:"content"`
	Degraded bool   `json:"degraded"`
}

type QuickQuestion struct {
	Text  string `json:"text"`
	Query string `json:"query"`
}
