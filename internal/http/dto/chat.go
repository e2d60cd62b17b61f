package dto

// ChatMessage mirrors one transcript entry on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the relay's inbound payload: the full transcript mapped to
// wire roles, plus the selected reference document's content (null when no
// document is selected).
type ChatRequest struct {
	Messages            []ChatMessage `json:"messages"`
	UploadedFileContent *string       `json:"uploadedFileContent"`
}

// ChatReply is the only shape the relay returns, for success and failure
// alike; failures carry a fixed human-readable sentence, not an error code.
type ChatReply struct {
	Reply string `json:"reply"`
}
