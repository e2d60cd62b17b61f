package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"resty.dev/v3"

	"parley.app/relay/internal/http/dto"
)

// HTTPRelay talks to the context relay over HTTP. A 500 from the relay is
// decoded like a 200: the relay already normalized failure into reply text,
// so both statuses carry the same envelope.
type HTTPRelay struct {
	client *resty.Client
	url    string
}

// NewHTTPRelay builds a relay client for the given chat endpoint URL
// (e.g. "http://localhost:8080/api/v1/chat").
func NewHTTPRelay(url string) *HTTPRelay {
	return &HTTPRelay{
		client: resty.New(),
		url:    url,
	}
}

func (r *HTTPRelay) Complete(ctx context.Context, req dto.ChatRequest) (dto.ChatReply, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(r.url)
	if err != nil {
		return dto.ChatReply{}, fmt.Errorf("calling relay: %w", err)
	}

	var reply dto.ChatReply
	if err := json.Unmarshal(resp.Bytes(), &reply); err != nil {
		return dto.ChatReply{}, fmt.Errorf("decoding relay reply: %w", err)
	}
	return reply, nil
}

// Close releases the underlying transport.
func (r *HTTPRelay) Close() error {
	return r.client.Close()
}
