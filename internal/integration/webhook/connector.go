// Package webhook relays interview events and rendered documents to a
// Discord-style webhook endpoint. Delivery is best-effort: callers decide
// whether a failure is logged and swallowed or surfaced as a notice.
package webhook

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/integration/common"
	pkghttp "github.com/HIMASAKTA-DEV/project-wizard/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type message struct {
	Content string `json:"content"`
}

type Connector struct {
	config    config.WebhookConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WebhookConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SendMessage posts a plain text message to the webhook.
func (c *Connector) SendMessage(ctx context.Context, content string) error {
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, "", &message{Content: content}, nil)
	}, c.retryOptions(ctx)...)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDeliveryFailed, err)
	}

	ctxzap.Debug(ctx, "webhook message delivered", zap.Int("content_length", len(content)))
	return nil
}

// SendFile posts a document as a multipart upload with an accompanying
// message, matching the webhook's file-attachment contract.
func (c *Connector) SendFile(ctx context.Context, filename string, data []byte, content string) error {
	prepare := func(w *multipart.Writer) error {
		if content != "" {
			if err := w.WriteField("content", content); err != nil {
				return err
			}
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		_, err = part.Write(data)
		return err
	}

	err := retry.Do(func() error {
		return c.connector.DoMultipartRequest(ctx, http.MethodPost, "", prepare, nil)
	}, c.retryOptions(ctx)...)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDeliveryFailed, err)
	}

	ctxzap.Info(ctx, "webhook file delivered",
		zap.String("filename", filename),
		zap.Int("size", len(data)),
	)
	return nil
}

func (c *Connector) retryOptions(ctx context.Context) []retry.Option {
	opts := c.config.Retry.ToRetryOptions()
	return append(opts,
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}
