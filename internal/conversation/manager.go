// Package conversation owns one chat session's UI-visible state: the
// transcript, the uploaded reference documents, the single selection, and
// the submission state machine. One Manager per session; sessions share
// nothing.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"strings"
	"sync"
	"time"

	"parley.app/relay/common/id"
	"parley.app/relay/internal/http/dto"
	"parley.app/relay/internal/model"
	"parley.app/relay/internal/service"
)

var (
	// ErrCompletionInFlight rejects a submission while a prior one is
	// still awaiting its reply. At most one outstanding completion call
	// per conversation.
	ErrCompletionInFlight = errors.New("a completion is already in flight")

	// ErrUnsupportedDocumentType rejects uploads whose declared media
	// type is not plain text.
	ErrUnsupportedDocumentType = errors.New("only plain text documents are supported")

	// ErrDocumentNotFound reports a document index that is out of range.
	ErrDocumentNotFound = errors.New("document not found")
)

// State of the submission cycle.
type State string

const (
	StateIdle     State = "idle"
	StateAwaiting State = "awaiting"
)

const noSelection = -1

// Relay is the manager's view of the context relay: one call per
// submission, settling to a reply envelope or a transport error.
type Relay interface {
	Complete(ctx context.Context, req dto.ChatRequest) (dto.ChatReply, error)
}

// Manager drives the request/response cycle for one conversation.
// All methods are safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	relay      Relay
	transcript []model.Message
	documents  []model.ReferenceDocument
	selected   int
	state      State
}

func NewManager(relay Relay) *Manager {
	return &Manager{
		relay:    relay,
		selected: noSelection,
		state:    StateIdle,
	}
}

// Submit appends a user message, performs one relay call with the full
// transcript and the selected document's content, and appends exactly one
// assistant message from the settled reply. Empty or whitespace-only input
// is a silent no-op. Returns ErrCompletionInFlight while a prior submission
// is still awaiting its reply; the transcript is untouched in that case.
func (m *Manager) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	m.mu.Lock()
	if m.state == StateAwaiting {
		m.mu.Unlock()
		return ErrCompletionInFlight
	}

	m.transcript = append(m.transcript, model.Message{
		ID:      id.New(),
		Role:    model.RoleUser,
		Content: text,
		SentAt:  time.Now(),
	})
	req := m.buildRequestLocked()
	m.state = StateAwaiting
	m.mu.Unlock()

	reply, err := m.relay.Complete(ctx, req)

	replyText := reply.Reply
	switch {
	case err != nil:
		// Relay unreachable or its body undecodable; the transcript
		// still gets a readable assistant bubble.
		slog.WarnContext(ctx, "relay call failed", "error", err)
		replyText = service.FallbackReply
	case replyText == "":
		replyText = service.GenericReply
	}

	m.mu.Lock()
	m.transcript = append(m.transcript, model.Message{
		ID:      id.New(),
		Role:    model.RoleAssistant,
		Content: replyText,
		SentAt:  time.Now(),
	})
	m.state = StateIdle
	m.mu.Unlock()

	return nil
}

// buildRequestLocked maps the transcript to wire roles and attaches the
// selected document's content. Caller holds m.mu.
func (m *Manager) buildRequestLocked() dto.ChatRequest {
	messages := make([]dto.ChatMessage, 0, len(m.transcript))
	for _, msg := range m.transcript {
		messages = append(messages, dto.ChatMessage{
			Role:    msg.WireRole(),
			Content: msg.Content,
		})
	}

	var uploaded *string
	if m.selected != noSelection {
		content := m.documents[m.selected].Content
		uploaded = &content
	}

	return dto.ChatRequest{
		Messages:            messages,
		UploadedFileContent: uploaded,
	}
}

// UploadDocument registers a reference document. The declared media type
// must be text/plain; anything else is rejected with no state change. The
// new document is never auto-selected.
func (m *Manager) UploadDocument(name, mimeType string, data []byte) error {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil || mediaType != "text/plain" {
		return ErrUnsupportedDocumentType
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents = append(m.documents, model.ReferenceDocument{
		ID:      id.New(),
		Name:    name,
		Content: string(data),
	})
	return nil
}

// SelectDocument marks the document at index as the one injected into the
// next submission's context.
func (m *Manager) SelectDocument(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.documents) {
		return ErrDocumentNotFound
	}
	m.selected = index
	return nil
}

// Deselect clears the selection.
func (m *Manager) Deselect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = noSelection
}

// DeleteDocument removes the document at index. Deleting the selected
// document clears the selection; deleting a document before it shifts the
// selection down so it keeps referring to the same document.
func (m *Manager) DeleteDocument(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.documents) {
		return ErrDocumentNotFound
	}

	m.documents = append(m.documents[:index], m.documents[index+1:]...)

	switch {
	case m.selected == index:
		m.selected = noSelection
	case m.selected > index:
		m.selected--
	}
	return nil
}

// Transcript returns a copy of the transcript in conversation order.
func (m *Manager) Transcript() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Message, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// Documents returns a copy of the uploaded documents in upload order.
func (m *Manager) Documents() []model.ReferenceDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ReferenceDocument, len(m.documents))
	copy(out, m.documents)
	return out
}

// SelectedDocument returns the currently selected document, if any.
func (m *Manager) SelectedDocument() (model.ReferenceDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == noSelection {
		return model.ReferenceDocument{}, false
	}
	return m.documents[m.selected], true
}

// State reports whether a completion is outstanding.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
