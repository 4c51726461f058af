package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

type Handlers struct {
	log     logger.Logger
	botInfo ports.BotInfoPort
	chat    ports.ChatPort
}

func New(log logger.Logger, botInfo ports.BotInfoPort, chat ports.ChatPort) *Handlers {
	return &Handlers{
		log:     log,
		botInfo: botInfo,
		chat:    chat,
	}
}

type healthResponse struct {
	Status       string `json:"status"`
	State        string `json:"state"`
	ConnectionID string `json:"connection_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Channel      string `json:"channel,omitempty"`
}

// HealthHandler отвечает 200 только когда сервер чата принял соединение.
func (h *Handlers) HealthHandler(c *gin.Context) {
	name, channel := h.botInfo.Get()
	state := h.chat.State()

	resp := healthResponse{
		Status:       "ok",
		State:        state.String(),
		ConnectionID: h.chat.ConnectionID(),
		Name:         name,
		Channel:      channel,
	}

	code := http.StatusOK
	if state != ports.Active {
		resp.Status = "starting"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
