package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superoutine/internal/model"
	"superoutine/internal/service/habit"
)

type HabitHandler struct {
	habits *habit.Service
	logger *zap.Logger
}

func NewHabitHandler(habits *habit.Service, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{habits: habits, logger: logger}
}

// ListHabits handles GET /v1/habits
func (h *HabitHandler) ListHabits(c *gin.Context) {
	habits, err := h.habits.ListHabits(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to fetch habits", err)
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// CreateHabit handles POST /v1/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req model.HabitInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.habits.AddHabit(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		respondError(c, h.logger, "failed to create habit", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateHabit handles PUT /v1/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var req model.HabitInput
	if !bindJSON(c, &req) {
		return
	}
	m := h.habits.EditHabit(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), req)
	respondMutation(c, h.logger, "failed to update habit", m)
}

// DeleteHabit handles DELETE /v1/habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	m := h.habits.DeleteHabit(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	respondMutation(c, h.logger, "failed to delete habit", m)
}

// ToggleDay handles POST /v1/habits/:id/toggle {"day": n}
func (h *HabitHandler) ToggleDay(c *gin.Context) {
	var req struct {
		Day int `json:"day"`
	}
	if !bindJSON(c, &req) {
		return
	}
	m := h.habits.ToggleDay(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), req.Day)
	respondMutation(c, h.logger, "failed to toggle habit", m)
}

// ListWeeklyHabits handles GET /v1/weekly-habits
func (h *HabitHandler) ListWeeklyHabits(c *gin.Context) {
	weekly, err := h.habits.ListWeeklyHabits(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, h.logger, "failed to fetch weekly habits", err)
		return
	}
	if weekly == nil {
		weekly = []model.WeeklyHabit{}
	}
	c.JSON(http.StatusOK, gin.H{"weekly_habits": weekly})
}

// CreateWeeklyHabit handles POST /v1/weekly-habits
func (h *HabitHandler) CreateWeeklyHabit(c *gin.Context) {
	var req model.WeeklyHabitInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.habits.AddWeeklyHabit(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		respondError(c, h.logger, "failed to create weekly habit", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateWeeklyHabit handles PUT /v1/weekly-habits/:id
func (h *HabitHandler) UpdateWeeklyHabit(c *gin.Context) {
	var req model.WeeklyHabitInput
	if !bindJSON(c, &req) {
		return
	}
	m := h.habits.EditWeeklyHabit(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), req)
	respondMutation(c, h.logger, "failed to update weekly habit", m)
}

// DeleteWeeklyHabit handles DELETE /v1/weekly-habits/:id
func (h *HabitHandler) DeleteWeeklyHabit(c *gin.Context) {
	m := h.habits.DeleteWeeklyHabit(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	respondMutation(c, h.logger, "failed to delete weekly habit", m)
}

// ToggleWeek handles POST /v1/weekly-habits/:id/toggle {"week": n}
func (h *HabitHandler) ToggleWeek(c *gin.Context) {
	var req struct {
		Week int `json:"week"`
	}
	if !bindJSON(c, &req) {
		return
	}
	m := h.habits.ToggleWeek(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), req.Week)
	respondMutation(c, h.logger, "failed to toggle weekly habit", m)
}
