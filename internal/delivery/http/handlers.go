package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/ilindan-dev/alertgate/internal/manager"
	"github.com/rs/zerolog"
)

type Handlers struct {
	manager *manager.Manager
	logger  zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(manager *manager.Manager, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		manager: manager,
		logger:  logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the notification API.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/notifications", h.Notify)
	}
}

// Notify handles one dispatch request over HTTP. The response body is the
// same aggregate result the CLI prints.
func (h *Handlers) Notify(c *gin.Context) {
	var req NotifyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	level, err := model.ParseLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	channels := make([]model.Channel, 0, len(req.Channels))
	for _, name := range req.Channels {
		channels = append(channels, model.Channel(name))
	}

	request := model.NewRequest(req.Event, req.Title, req.Content, level, channels, req.Force)
	result := h.manager.Send(c.Request.Context(), request)

	status := http.StatusOK
	if result.Outcome == model.OutcomeFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}
