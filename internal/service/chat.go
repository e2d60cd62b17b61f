package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parley.app/relay/common/logger"
	"parley.app/relay/internal/llm"
	"parley.app/relay/internal/model"
	"parley.app/relay/internal/prompt"
)

// User-visible reply texts. Every relay failure collapses to FallbackReply;
// a successful upstream call that yields no content gets GenericReply.
// Diagnostic detail stays in logs, never in these strings.
const (
	FallbackReply = "Sorry, I encountered a network error."
	GenericReply  = "Sorry, I encountered an error."
)

// FailureKind tags the internal cause of a failed completion. It exists for
// observability only; the reply text shown to the user is uniform.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureMissingCredential FailureKind = "missing_credential"
	FailureUpstreamStatus    FailureKind = "upstream_status"
	FailureNetwork           FailureKind = "network"
)

// Result is what a completion attempt settles to. Reply is always set and
// always safe to show; Failure is empty on success.
type Result struct {
	Reply   string
	Failure FailureKind
}

func (r Result) Failed() bool {
	return r.Failure != FailureNone
}

// ChatService turns a transcript plus an optional reference text into one
// completion call and a settled Result. Stateless; every call is one unit
// of work with exactly one downstream request.
type ChatService interface {
	Complete(ctx context.Context, transcript []model.Message, referenceText string) Result
}

type chatService struct {
	client        llm.Client // nil when no credential is configured
	maxTranscript int
}

// NewChatService builds the relay's chat service. client may be nil when the
// completion credential is absent; every call then settles to a
// missing-credential failure instead of refusing to start.
func NewChatService(client llm.Client, maxTranscript int) ChatService {
	return &chatService{
		client:        client,
		maxTranscript: maxTranscript,
	}
}

func (s *chatService) Complete(ctx context.Context, transcript []model.Message, referenceText string) Result {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.service.chat"})

	if s.client == nil {
		slog.ErrorContext(ctx, "completion credential is not configured")
		return Result{Reply: FallbackReply, Failure: FailureMissingCredential}
	}

	messages := AssembleMessages(transcript, referenceText, s.maxTranscript)

	sc := logger.StartSpan(ctx, "relay.complete", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	sc.SetAttributes(
		attribute.Int("chat.messages", len(messages)),
		attribute.Bool("chat.has_reference", referenceText != ""),
	)
	ctx = sc.Context()

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyCompletion) {
			// Upstream answered but sent nothing usable; per contract this
			// is a success with a generic reply, not a relay failure.
			slog.WarnContext(ctx, "completion response had no content", "model", s.client.Model())
			return Result{Reply: GenericReply}
		}

		sc.RecordError(err)
		if status := llm.UpstreamStatus(err); status != 0 {
			slog.ErrorContext(ctx, "completion service returned an error status",
				"status", status,
				"error", logger.Truncate(err.Error(), 500),
			)
			return Result{Reply: FallbackReply, Failure: FailureUpstreamStatus}
		}

		slog.ErrorContext(ctx, "completion request failed", "error", err)
		return Result{Reply: FallbackReply, Failure: FailureNetwork}
	}

	return Result{Reply: reply}
}

// AssembleMessages builds the ordered completion payload: the synthesized
// system message first, then the transcript mapped to wire roles. When
// maxTranscript is positive only the most recent maxTranscript transcript
// messages are included; the system message is always present and exempt
// from the window. Deterministic: identical inputs yield identical payloads.
func AssembleMessages(transcript []model.Message, referenceText string, maxTranscript int) []llm.Message {
	if maxTranscript > 0 && len(transcript) > maxTranscript {
		transcript = transcript[len(transcript)-maxTranscript:]
	}

	messages := make([]llm.Message, 0, len(transcript)+1)
	messages = append(messages, llm.Message{
		Role:    model.RoleSystem,
		Content: prompt.SystemMessage(referenceText),
	})
	for _, m := range transcript {
		messages = append(messages, llm.Message{
			Role:    m.WireRole(),
			Content: m.Content,
		})
	}
	return messages
}
