package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superoutine/internal/analytics"
	"superoutine/internal/model"
	"superoutine/internal/service/dashboard"
	"superoutine/internal/service/export"
	"superoutine/internal/service/gamification"
	"superoutine/internal/service/mood"
	"superoutine/internal/service/reminder"
)

// ProfileHandler 处理 gamification / mood / reminder / dashboard / export
type ProfileHandler struct {
	game      *gamification.Service
	moods     *mood.Service
	reminders *reminder.Service
	dashboard *dashboard.Service
	export    *export.Service
	logger    *zap.Logger
}

func NewProfileHandler(
	game *gamification.Service,
	moods *mood.Service,
	reminders *reminder.Service,
	dash *dashboard.Service,
	exp *export.Service,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		game:      game,
		moods:     moods,
		reminders: reminders,
		dashboard: dash,
		export:    exp,
		logger:    logger,
	}
}

// GetGamification handles GET /v1/gamification
func (h *ProfileHandler) GetGamification(c *gin.Context) {
	summary, err := h.game.Summary(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to load gamification", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UseSkip handles POST /v1/gamification/skip
func (h *ProfileHandler) UseSkip(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	summary, err := h.game.UseSkip(c.Request.Context(), userID)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			respondError(c, h.logger, "failed to use emergency skip", err)
			return
		}
		c.JSON(status, gin.H{"error": err.Error(), "gamification": summary})
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, summary)
}

// GetMoods handles GET /v1/moods
func (h *ProfileHandler) GetMoods(c *gin.Context) {
	overview, err := h.moods.Overview(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to load moods", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// LogMood handles POST /v1/moods {"mood": 1..5}
func (h *ProfileHandler) LogMood(c *gin.Context) {
	var req model.MoodInput
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.moods.Log(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		respondError(c, h.logger, "failed to log mood", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetReminder handles GET /v1/reminders
func (h *ProfileHandler) GetReminder(c *gin.Context) {
	settings, err := h.reminders.Get(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to load reminder settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveReminder handles PUT /v1/reminders
func (h *ProfileHandler) SaveReminder(c *gin.Context) {
	var req model.ReminderInput
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.reminders.Save(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		respondError(c, h.logger, "failed to save reminder settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetDashboard handles GET /v1/dashboard?month=YYYY-MM
func (h *ProfileHandler) GetDashboard(c *gin.Context) {
	var period *analytics.Period
	if month := c.Query("month"); month != "" {
		p, err := analytics.ParsePeriod(month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		period = &p
	}

	view, err := h.dashboard.Get(c.Request.Context(), c.GetString(ctxUserID), period)
	if err != nil {
		respondError(c, h.logger, "failed to compute dashboard", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Export handles GET /v1/export
func (h *ProfileHandler) Export(c *gin.Context) {
	bundle, err := h.export.Build(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to export data", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="superoutine-export.json"`)
	c.JSON(http.StatusOK, bundle)
}
