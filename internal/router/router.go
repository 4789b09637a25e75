package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/backend/internal/handler"
	"focusflow/backend/internal/middleware"
)

func New(
	timerHandler *handler.TimerHandler,
	sessionHandler *handler.SessionHandler,
	statsHandler *handler.StatsHandler,
	syncHandler *handler.SyncHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	plan := api.Group("/plan")
	plan.POST("/preview", timerHandler.PreviewPlan)

	timer := api.Group("/timer")
	timer.GET("/state", timerHandler.GetState)
	timer.POST("/start", timerHandler.Start)
	timer.POST("/pause", timerHandler.Pause)
	timer.POST("/resume", timerHandler.Resume)
	timer.POST("/reset", timerHandler.Reset)
	timer.POST("/skip", timerHandler.Skip)
	timer.POST("/adjust", timerHandler.AdjustTime)
	timer.POST("/cycles/add", timerHandler.AddCycles)
	timer.POST("/cycles/remove", timerHandler.RemoveCycles)

	session := api.Group("/session")
	session.GET("/draft", sessionHandler.GetDraft)
	session.PUT("/draft", sessionHandler.SaveDraft)
	session.DELETE("/draft", sessionHandler.ClearDraft)
	session.POST("/stop", sessionHandler.Stop)
	session.POST("/abandon", sessionHandler.Abandon)

	api.GET("/sessions", sessionHandler.ListSessions)
	api.GET("/sessions/days", sessionHandler.ListDays)

	api.GET("/stats", statsHandler.GetStats)

	settings := api.Group("/settings")
	settings.GET("/audio", statsHandler.GetAudioSettings)
	settings.PUT("/audio", statsHandler.UpdateAudioSettings)
	settings.GET("/notifications", statsHandler.GetNotificationSettings)
	settings.PUT("/notifications", statsHandler.UpdateNotificationSettings)

	sync := api.Group("/sync")
	sync.POST("/flowclub", syncHandler.ApplySync)
	sync.GET("/flowclub", syncHandler.GetSyncState)

	return engine
}
