package senders

import (
	"context"
	"net/http"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
)

// FeishuSender delivers notifications to a Feishu bot webhook as an
// interactive card.
type FeishuSender struct {
	webhook         string
	atAllOnCritical bool
	client          *http.Client
	logger          zerolog.Logger
}

// NewFeishuSender creates a new instance of FeishuSender.
func NewFeishuSender(cfg config.FeishuConfig, logger *zerolog.Logger) *FeishuSender {
	return &FeishuSender{
		webhook:         cfg.Webhook,
		atAllOnCritical: cfg.AtAllOnCritical,
		client:          &http.Client{},
		logger:          logger.With().Str("component", "feishu_sender").Logger(),
	}
}

type feishuCardMessage struct {
	MsgType string     `json:"msg_type"`
	Card    feishuCard `json:"card"`
}

type feishuCard struct {
	Header   feishuHeader    `json:"header"`
	Elements []feishuElement `json:"elements"`
}

type feishuHeader struct {
	Title    feishuText `json:"title"`
	Template string     `json:"template"`
}

type feishuText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

type feishuElement struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// Send implements the Sender interface for Feishu. Critical messages
// mention everyone in the chat when at_all_on_critical is configured.
func (s *FeishuSender) Send(ctx context.Context, msg *model.Message) error {
	body := msg.Body
	if s.atAllOnCritical && msg.Level == model.LevelCritical {
		body += "\n<at user_id='all'></at>"
	}

	payload := feishuCardMessage{
		MsgType: "interactive",
		Card: feishuCard{
			Header: feishuHeader{
				Title:    feishuText{Tag: "plain_text", Content: msg.Title},
				Template: msg.Level.Color(),
			},
			Elements: []feishuElement{{Tag: "markdown", Content: body}},
		},
	}

	if err := postJSON(ctx, s.client, s.webhook, payload); err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Msg("failed to send feishu card")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Msg("feishu card sent successfully")
	return nil
}
