// Package modelgw talks to an OpenAI-compatible chat completion endpoint.
// Providers differ in availability and quota, so the gateway walks an
// ordered list of candidate model identifiers and uses the first one that
// accepts the request, exposing the response as an incremental fragment
// stream.
package modelgw

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/integration/common"
	pkghttp "github.com/HIMASAKTA-DEV/project-wizard/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const completionsEndpoint = "/chat/completions"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type Connector struct {
	config    config.ModelGatewayConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ModelGatewayConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewStreamConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// StreamCompletion sends the system instruction plus the full transcript and
// returns the first candidate model's fragment stream. Candidates are tried
// in configured order; a candidate that fails at the connection or
// validation stage is skipped. When every candidate fails the call fails
// with ErrModelUnavailable wrapping the last underlying cause. A missing
// provider credential fails immediately without any network call.
func (c *Connector) StreamCompletion(ctx context.Context, system string, turns []entity.Turn) (entity.CompletionStream, error) {
	if c.config.Token == "" {
		return nil, entity.ErrConfigurationMissing
	}

	messages := make([]chatMessage, 0, len(turns)+1)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	var lastErr error
	for _, model := range c.config.Candidates {
		req := &chatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Stream:      true,
			Temperature: c.config.Temperature,
		}

		body, err := c.connector.DoStreamRequest(ctx, http.MethodPost, completionsEndpoint, req)
		if err != nil {
			ctxzap.Warn(ctx, "candidate model rejected the request",
				zap.String("model", model),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		ctxzap.Info(ctx, "model accepted completion request",
			zap.String("model", model),
			zap.Int("message_count", len(messages)),
		)
		return newStream(body), nil
	}

	return nil, fmt.Errorf("%w: last cause: %v", entity.ErrModelUnavailable, lastErr)
}
