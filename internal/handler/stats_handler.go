package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/backend/internal/model"
	"focusflow/backend/internal/service"
)

// StatsHandler serves aggregated statistics and the audio and
// notification settings.
type StatsHandler struct {
	timerService *service.TimerService
}

func NewStatsHandler(timerService *service.TimerService) *StatsHandler {
	return &StatsHandler{timerService: timerService}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.timerService.Stats()})
}

func (h *StatsHandler) GetAudioSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.timerService.AudioSettings()})
}

func (h *StatsHandler) UpdateAudioSettings(c *gin.Context) {
	var settings model.AudioSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		writeInvalidJSON(c)
		return
	}
	updated := h.timerService.UpdateAudioSettings(c.Request.Context(), settings)
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}

func (h *StatsHandler) GetNotificationSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.timerService.NotificationSettings()})
}

func (h *StatsHandler) UpdateNotificationSettings(c *gin.Context) {
	var settings model.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		writeInvalidJSON(c)
		return
	}
	updated := h.timerService.UpdateNotificationSettings(c.Request.Context(), settings)
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
