package conversation_test

import (
	"context"

	"parley.app/relay/internal/http/dto"
)

type mockRelay struct {
	completeFn func(ctx context.Context, req dto.ChatRequest) (dto.ChatReply, error)
	calls      []dto.ChatRequest
}

func (m *mockRelay) Complete(ctx context.Context, req dto.ChatRequest) (dto.ChatReply, error) {
	m.calls = append(m.calls, req)
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return dto.ChatReply{Reply: "ok"}, nil
}
