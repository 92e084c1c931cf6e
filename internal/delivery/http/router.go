package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine and registers all routes
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/send_message", h.SendMessage)
	router.GET("/content/:employee_id", h.Content)

	router.GET("/message_preferences/:employee_id/:content_id", h.MessagePreference)
	router.POST("/set_message_delay", h.SetMessageDelay)

	router.POST("/record_view", h.RecordView)
	router.POST("/reaction", h.Reaction)
	router.POST("/feedback", h.Feedback)
	router.GET("/views/:employee_id", h.EmployeeViews)
	router.GET("/content_views/:content_id", h.ContentViews)

	router.POST("/update_status", h.UpdateStatus)
	router.GET("/updates/version", h.Version)

	return router
}
