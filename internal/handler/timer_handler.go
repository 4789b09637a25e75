package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/backend/internal/model"
	"focusflow/backend/internal/service"
)

// TimerHandler exposes the timer engine operations over HTTP.
type TimerHandler struct {
	timerService *service.TimerService
}

type startRequest struct {
	Mode    string              `json:"mode"`
	Minutes int                 `json:"minutes"`
	Style   string              `json:"style"`
	Draft   *model.SessionDraft `json:"draft"`
}

type adjustRequest struct {
	DeltaSeconds int `json:"deltaSeconds"`
}

type cyclesRequest struct {
	Cycles int `json:"cycles"`
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) PreviewPlan(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	blocks, apiErr := h.timerService.PreviewPlan(service.StartInput{
		Mode:    req.Mode,
		Minutes: req.Minutes,
		Style:   req.Style,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

func (h *TimerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.GetState()})
}

func (h *TimerHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, apiErr := h.timerService.Start(c.Request.Context(), service.StartInput{
		Mode:    req.Mode,
		Minutes: req.Minutes,
		Style:   req.Style,
		Draft:   req.Draft,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Pause(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Pause()})
}

func (h *TimerHandler) Resume(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Resume()})
}

func (h *TimerHandler) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Reset()})
}

func (h *TimerHandler) Skip(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Skip()})
}

func (h *TimerHandler) AdjustTime(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.AdjustTime(req.DeltaSeconds)})
}

func (h *TimerHandler) AddCycles(c *gin.Context) {
	var req cyclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, apiErr := h.timerService.AddCycles(req.Cycles)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) RemoveCycles(c *gin.Context) {
	var req cyclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, apiErr := h.timerService.RemoveCycles(req.Cycles)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
