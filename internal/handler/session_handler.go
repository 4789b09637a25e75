package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/backend/internal/model"
	"focusflow/backend/internal/service"
)

// SessionHandler covers the prep draft, the stop flow and the recorded
// history.
type SessionHandler struct {
	timerService *service.TimerService
}

type stopRequest struct {
	Save bool   `json:"save"`
	Note string `json:"note"`
}

func NewSessionHandler(timerService *service.TimerService) *SessionHandler {
	return &SessionHandler{timerService: timerService}
}

func (h *SessionHandler) GetDraft(c *gin.Context) {
	draft := h.timerService.GetDraft(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *SessionHandler) SaveDraft(c *gin.Context) {
	var draft model.SessionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.timerService.SaveDraft(c.Request.Context(), draft); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *SessionHandler) ClearDraft(c *gin.Context) {
	h.timerService.ClearDraft(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"draft": nil})
}

func (h *SessionHandler) Stop(c *gin.Context) {
	var req stopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Stop(c.Request.Context(), req.Save, req.Note)})
}

func (h *SessionHandler) Abandon(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Abandon(c.Request.Context())})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions := h.timerService.History()
	if sessions == nil {
		sessions = []model.SessionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) ListDays(c *gin.Context) {
	days := h.timerService.Days()
	if days == nil {
		days = []model.DailySummary{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
