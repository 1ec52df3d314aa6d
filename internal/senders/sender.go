package senders

import (
	"context"
	"fmt"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
)

// Sender defines the interface for any delivery channel. Each platform
// gets one implementation; the manager depends only on this interface.
type Sender interface {
	// Send delivers the rendered message over the channel's transport.
	Send(ctx context.Context, msg *model.Message) error
}

// Registry maps each enabled channel to its sender.
type Registry map[model.Channel]Sender

// NewRegistry builds senders for every channel enabled in the config.
// Disabled channels get no entry, which is how the router later tells
// "disabled" apart from "targeted".
func NewRegistry(cfg *config.Config, logger *zerolog.Logger) (Registry, error) {
	log := logger.With().Str("component", "senders").Logger()

	reg := make(Registry)

	if c := cfg.Channels.Teams; c.Enabled && c.Webhook != "" {
		reg[model.ChannelTeams] = NewTeamsSender(c, logger)
		log.Info().Msg("teams sender enabled")
	}
	if c := cfg.Channels.Feishu; c.Enabled && c.Webhook != "" {
		reg[model.ChannelFeishu] = NewFeishuSender(c, logger)
		log.Info().Msg("feishu sender enabled")
	}
	if c := cfg.Channels.Wechat; c.Enabled && c.Key != "" {
		reg[model.ChannelWechat] = NewWechatSender(c, logger)
		log.Info().Msg("wechat sender enabled")
	}
	if c := cfg.Channels.Email; c.Enabled && c.Host != "" {
		reg[model.ChannelEmail] = NewEmailSender(c, logger)
		log.Info().Msg("email sender enabled")
	}
	if c := cfg.Channels.Telegram; c.Enabled && c.BotToken != "" {
		tg, err := NewTelegramSender(c, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram sender: %w", err)
		}
		reg[model.ChannelTelegram] = tg
		log.Info().Msg("telegram sender enabled")
	}
	if c := cfg.Channels.AMQP; c.Enabled && c.DSN != "" {
		mq, err := NewAMQPSender(c, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize amqp sender: %w", err)
		}
		reg[model.ChannelAMQP] = mq
		log.Info().Msg("amqp sender enabled")
	}

	return reg, nil
}

// Channels returns the enabled channel names in reporting order.
func (r Registry) Channels() []model.Channel {
	out := make([]model.Channel, 0, len(r))
	for _, ch := range model.KnownChannels {
		if _, ok := r[ch]; ok {
			out = append(out, ch)
		}
	}
	return out
}
