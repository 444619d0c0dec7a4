package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/logging"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

// fail maps workflow errors onto the HTTP contract: absent resources are
// 404, failed ownership/role gates 403, everything the caller can fix
// 400, and anything unanticipated a generic 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrOrderNotFound),
		errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrCategoryNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})

	case errors.Is(err, entity.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})

	case errors.Is(err, entity.ErrProductUnavailable),
		errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrCancelWindowExpired),
		errors.Is(err, entity.ErrOrderAlreadyCompleted),
		errors.Is(err, entity.ErrOrderAlreadyCancelled),
		errors.Is(err, entity.ErrCategoryInUse),
		errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

	case errors.Is(err, entity.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})

	case errors.Is(err, usecase.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})

	default:
		logging.From(c).Error("internal error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request", "detail": err.Error()})
}
