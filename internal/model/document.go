package model

// ReferenceDocument is a user-supplied plain-text file whose content can be
// injected into the system message to give the model extra context. Owned
// exclusively by the conversation manager; at most one is selected at a time.
type ReferenceDocument struct {
	ID      int64
	Name    string
	Content string
}
