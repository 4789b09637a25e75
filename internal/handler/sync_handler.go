package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/backend/internal/service"
)

// SyncHandler mirrors externally hosted Flow Club session state.
type SyncHandler struct {
	timerService *service.TimerService
}

func NewSyncHandler(timerService *service.TimerService) *SyncHandler {
	return &SyncHandler{timerService: timerService}
}

func (h *SyncHandler) ApplySync(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.timerService.ApplySync(payload); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

func (h *SyncHandler) GetSyncState(c *gin.Context) {
	payload, ok := h.timerService.SyncState()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"sync": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sync": payload})
}
