package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	game "superoutine/internal/gamification"
	"superoutine/internal/model"
	"superoutine/internal/repository"
	"superoutine/internal/service/habit"
	"superoutine/internal/service/mood"
	applog "superoutine/pkg/logger"
	"superoutine/pkg/rbac"
)

// statusOf maps service errors to HTTP status codes; anything unknown is a 500.
func statusOf(err error) int {
	var verr *model.ValidationError
	var perr *rbac.PermissionDeniedError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, habit.ErrDayOutOfRange),
		errors.Is(err, habit.ErrWeekOutOfRange),
		errors.Is(err, habit.ErrLinkedToSelf):
		return http.StatusBadRequest
	case errors.Is(err, habit.ErrFutureDay),
		errors.Is(err, habit.ErrFutureWeek),
		errors.Is(err, habit.ErrLinkedHabitMissing),
		errors.Is(err, mood.ErrFutureDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrNoSkipsLeft),
		errors.Is(err, game.ErrAlreadyProtected):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return body
}

// respondError writes err; internal failures are logged and their details hidden.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		applog.WithTrace(c.Request.Context(), logger).Error(msg,
			zap.String("user_id", c.GetString(ctxUserID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, errorBody(err))
}

// respondMutation writes the value of a successful mutation, or the error plus
// rollback_to so the client can restore its optimistic state.
func respondMutation[T any](c *gin.Context, logger *zap.Logger, msg string, m habit.Mutation[T]) {
	if m.OK {
		c.JSON(http.StatusOK, m.Value)
		return
	}
	status := statusOf(m.Err)
	body := errorBody(m.Err)
	if status >= http.StatusInternalServerError {
		applog.WithTrace(c.Request.Context(), logger).Error(msg,
			zap.String("user_id", c.GetString(ctxUserID)),
			zap.String("path", c.FullPath()),
			zap.Error(m.Err),
		)
		body = gin.H{"error": msg}
	}
	if status != http.StatusNotFound {
		body["rollback_to"] = m.RollbackTo
	}
	c.JSON(status, body)
}

// bindJSON decodes the body; on failure it writes a 400 and returns false.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
