// Package telegram is an alternative delivery sink that relays interview
// events and rendered documents to a Telegram chat instead of a webhook.
package telegram

import (
	"context"
	"fmt"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewConnector(cfg config.TelegramConfig, logger *zap.Logger) (*Connector, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("telegram delivery sink ready", zap.String("bot", bot.Self.UserName))

	return &Connector{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger,
	}, nil
}

func (c *Connector) SendMessage(ctx context.Context, content string) error {
	msg := tgbotapi.NewMessage(c.chatID, content)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDeliveryFailed, err)
	}

	ctxzap.Debug(ctx, "telegram message delivered", zap.Int64("chat_id", c.chatID))
	return nil
}

func (c *Connector) SendFile(ctx context.Context, filename string, data []byte, content string) error {
	doc := tgbotapi.NewDocument(c.chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	doc.Caption = content

	if _, err := c.bot.Send(doc); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDeliveryFailed, err)
	}

	ctxzap.Info(ctx, "telegram document delivered",
		zap.String("filename", filename),
		zap.Int64("chat_id", c.chatID),
	)
	return nil
}
