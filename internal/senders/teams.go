package senders

import (
	"context"
	"net/http"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
)

// TeamsSender delivers notifications to a Microsoft Teams incoming
// webhook using the legacy MessageCard schema.
type TeamsSender struct {
	webhook string
	client  *http.Client
	logger  zerolog.Logger
}

// NewTeamsSender creates a new instance of TeamsSender.
func NewTeamsSender(cfg config.TeamsConfig, logger *zerolog.Logger) *TeamsSender {
	return &TeamsSender{
		webhook: cfg.Webhook,
		client:  &http.Client{},
		logger:  logger.With().Str("component", "teams_sender").Logger(),
	}
}

type teamsCard struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor"`
	Summary    string         `json:"summary"`
	Sections   []teamsSection `json:"sections"`
}

type teamsSection struct {
	ActivityTitle string `json:"activityTitle"`
	Text          string `json:"text"`
	Markdown      bool   `json:"markdown"`
}

// Send implements the Sender interface for Teams.
func (s *TeamsSender) Send(ctx context.Context, msg *model.Message) error {
	card := teamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: msg.Level.Color(),
		Summary:    msg.Title,
		Sections: []teamsSection{{
			ActivityTitle: msg.Title,
			Text:          msg.Body,
			Markdown:      true,
		}},
	}

	if err := postJSON(ctx, s.client, s.webhook, card); err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Msg("failed to send teams card")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Msg("teams card sent successfully")
	return nil
}
