package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

// viewedThreshold is the duration in seconds past which a view counts as
// fully viewed in the per-content listing
const viewedThreshold = 30

// Handler serves the HTTP surface consumed by the admin backend and the
// desktop agents
type Handler struct {
	broadcast  domain.BroadcastUseCase
	delay      domain.DelayUseCase
	engagement domain.EngagementUseCase
	updates    *config.UpdatesConfig
	mapper     *pkgerrors.Mapper
	logger     zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	broadcast domain.BroadcastUseCase,
	delay domain.DelayUseCase,
	engagement domain.EngagementUseCase,
	updates *config.UpdatesConfig,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		broadcast:  broadcast,
		delay:      delay,
		engagement: engagement,
		updates:    updates,
		mapper:     pkgerrors.NewMapper(),
		logger:     logger.With().Str("component", "http").Logger(),
	}
}

// fail writes the mapped status code and message for an error
func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	c.JSON(status, gin.H{"message": msg})
}

type sendMessageRequest struct {
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	ImageURL      string   `json:"image_url"`
	VideoURL      string   `json:"url"`
	Employees     []string `json:"employees"`
	SendNow       bool     `json:"send_now"`
	ScheduledTime string   `json:"scheduled_time"`
}

// SendMessage schedules a broadcast
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	contentID, err := h.broadcast.Schedule(c.Request.Context(), &domain.ScheduleRequest{
		Title:         req.Title,
		Text:          req.Text,
		ImageURL:      req.ImageURL,
		VideoURL:      req.VideoURL,
		Recipients:    req.Employees,
		SendNow:       req.SendNow,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Message scheduled successfully",
		"content_id": contentID,
	})
}

// Content returns visible content and recent notifications for a recipient
func (h *Handler) Content(c *gin.Context) {
	feed, err := h.broadcast.FeedForEmployee(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// MessagePreference fetches the stored delay preference
func (h *Handler) MessagePreference(c *gin.Context) {
	pref, err := h.delay.GetPreference(c.Request.Context(), c.Param("employee_id"), c.Param("content_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preference": pref})
}

type setMessageDelayRequest struct {
	EmployeeID  string `json:"employee_id"`
	ContentID   string `json:"content_id"`
	DelayChoice string `json:"delay_choice"`
}

// SetMessageDelay resolves and stores a display time
func (h *Handler) SetMessageDelay(c *gin.Context) {
	var req setMessageDelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	pref, err := h.delay.SetMessageDelay(c.Request.Context(), req.EmployeeID, req.ContentID, domain.DelayChoice(req.DelayChoice))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Message delay set successfully",
		"display_time": pref.DisplayTime,
	})
}

type recordViewRequest struct {
	ContentID      string  `json:"content_id"`
	EmployeeID     string  `json:"employee_id"`
	ViewedDuration float64 `json:"viewed_duration"`
}

// RecordView max-merges a view duration
func (h *Handler) RecordView(c *gin.Context) {
	var req recordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	if err := h.engagement.RecordView(c.Request.Context(), req.ContentID, req.EmployeeID, req.ViewedDuration); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "View recorded successfully"})
}

type reactionRequest struct {
	ContentID  string `json:"content_id"`
	EmployeeID string `json:"employee_id"`
	Reaction   string `json:"reaction"`
}

// Reaction upserts a reaction
func (h *Handler) Reaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	if err := h.engagement.RecordReaction(c.Request.Context(), req.ContentID, req.EmployeeID, domain.ReactionType(req.Reaction)); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reaction recorded successfully"})
}

type feedbackRequest struct {
	ContentID  string `json:"content_id"`
	EmployeeID string `json:"employee_id"`
	Feedback   string `json:"feedback"`
}

// Feedback appends feedback text
func (h *Handler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	if err := h.engagement.RecordFeedback(c.Request.Context(), req.ContentID, req.EmployeeID, req.Feedback); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback recorded successfully"})
}

// EmployeeViews bulk-fetches views for client-side dedup reconciliation
func (h *Handler) EmployeeViews(c *gin.Context) {
	views, err := h.engagement.ViewsForEmployee(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"views": views})
}

// contentView is one row of the per-content view listing
type contentView struct {
	EmployeeID     string  `json:"employee_id"`
	ViewedDuration float64 `json:"viewed_duration"`
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
}

// ContentViews lists views for one content item with a viewed/pending status
func (h *Handler) ContentViews(c *gin.Context) {
	views, err := h.engagement.ViewsForContent(c.Request.Context(), c.Param("content_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]contentView, 0, len(views))
	for _, v := range views {
		status := "pending"
		if v.ViewedDuration > viewedThreshold {
			status = "viewed"
		}
		out = append(out, contentView{
			EmployeeID:     v.EmployeeID,
			ViewedDuration: v.ViewedDuration,
			Timestamp:      v.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Status:         status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"views": out})
}

// UpdateStatus receives a heartbeat plus app-version reconciliation
func (h *Handler) UpdateStatus(c *gin.Context) {
	var report domain.StatusReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
		return
	}

	if err := h.engagement.ReportStatus(c.Request.Context(), &report); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device status updated successfully"})
}

// Version returns the authoritative agent version
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.updates.CurrentVersion})
}

// Health is the liveness probe
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "hr-notification"})
}
