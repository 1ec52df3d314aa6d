package senders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const defaultExchange = "alertgate.notifications"

// AMQPSender publishes the rendered message to a fanout exchange so that
// downstream consumers can treat the broker as one more delivery channel.
type AMQPSender struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewAMQPSender dials the broker, opens a channel and declares the
// fanout exchange.
func NewAMQPSender(cfg config.AMQPConfig, logger *zerolog.Logger) (*AMQPSender, error) {
	conn, err := amqp.Dial(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("amqp: failed to connect: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: failed to open a channel: %w", err)
	}

	exchange := cfg.Exchange
	if exchange == "" {
		exchange = defaultExchange
	}
	if err := channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPSender{
		conn:     conn,
		ch:       channel,
		exchange: exchange,
		logger:   logger.With().Str("component", "amqp_sender").Logger(),
	}, nil
}

type amqpEnvelope struct {
	RequestID string `json:"request_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Level     string `json:"level"`
}

// Send implements the Sender interface for AMQP.
func (s *AMQPSender) Send(ctx context.Context, msg *model.Message) error {
	body, err := json.Marshal(amqpEnvelope{
		RequestID: msg.RequestID.String(),
		Title:     msg.Title,
		Body:      msg.Body,
		Level:     string(msg.Level),
	})
	if err != nil {
		return fmt.Errorf("amqp: failed to marshal message: %w", err)
	}

	err = s.ch.PublishWithContext(ctx, s.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Msg("failed to publish message")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Str("exchange", s.exchange).Msg("message published successfully")
	return nil
}

// Close gracefully shuts down the channel and connection.
func (s *AMQPSender) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
