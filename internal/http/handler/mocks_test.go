package handler_test

import (
	"context"

	"parley.app/relay/internal/model"
	"parley.app/relay/internal/service"
)

type mockChatService struct {
	completeFn func(ctx context.Context, transcript []model.Message, referenceText string) service.Result
}

func (m *mockChatService) Complete(ctx context.Context, transcript []model.Message, referenceText string) service.Result {
	if m.completeFn != nil {
		return m.completeFn(ctx, transcript, referenceText)
	}
	return service.Result{}
}
