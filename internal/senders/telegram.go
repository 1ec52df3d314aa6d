package senders

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
)

// TelegramSender delivers notifications via a Telegram bot.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegramSender creates a new instance of TelegramSender.
func NewTelegramSender(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot api: %w", err)
	}
	return &TelegramSender{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger.With().Str("component", "telegram_sender").Logger(),
	}, nil
}

// Send implements the Sender interface for Telegram.
func (s *TelegramSender) Send(_ context.Context, msg *model.Message) error {
	fullMessage := fmt.Sprintf("*%s*\n\n%s", msg.Title, msg.Body)

	tgMsg := tgbotapi.NewMessage(s.chatID, fullMessage)
	tgMsg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := s.bot.Send(tgMsg); err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Msg("failed to send telegram message")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Int64("chat_id", s.chatID).Msg("telegram message sent successfully")
	return nil
}
