package senders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
)

// Relay endpoints, vars so tests can point them at a local server.
var (
	pushPlusURL    = "http://www.pushplus.plus/send"
	serverChanBase = "https://sctapi.ftqq.com"
)

// WechatSender delivers notifications to WeChat through either the
// ServerChan or the PushPlus relay service.
type WechatSender struct {
	service string
	key     string
	client  *http.Client
	logger  zerolog.Logger
}

// NewWechatSender creates a new instance of WechatSender.
func NewWechatSender(cfg config.WechatConfig, logger *zerolog.Logger) *WechatSender {
	return &WechatSender{
		service: cfg.Service,
		key:     cfg.Key,
		client:  &http.Client{},
		logger:  logger.With().Str("component", "wechat_sender").Logger(),
	}
}

type serverChanPayload struct {
	Title string `json:"title"`
	Desp  string `json:"desp"`
}

type pushPlusPayload struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Template string `json:"template"`
}

// Send implements the Sender interface for WeChat push services.
func (s *WechatSender) Send(ctx context.Context, msg *model.Message) error {
	var err error
	switch s.service {
	case config.WechatPushPlus:
		err = postJSON(ctx, s.client, pushPlusURL, pushPlusPayload{
			Token:    s.key,
			Title:    msg.Title,
			Content:  msg.Body,
			Template: "markdown",
		})
	default: // ServerChan
		url := fmt.Sprintf("%s/%s.send", serverChanBase, s.key)
		err = postJSON(ctx, s.client, url, serverChanPayload{
			Title: msg.Title,
			Desp:  msg.Body,
		})
	}

	if err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Str("service", s.service).Msg("failed to send wechat push")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Str("service", s.service).Msg("wechat push sent successfully")
	return nil
}
