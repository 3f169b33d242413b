package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/apperr"
)

// respondError maps the engine's error vocabulary onto HTTP status codes.
// Anything outside the vocabulary is an internal error: logged in full,
// surfaced as an opaque 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *apperr.ValidationError
	var bindingErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &bindingErrs):
		field := ""
		if len(bindingErrs) > 0 {
			field = bindingErrs[0].Field()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "field": field})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrPastTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot start must be in the future"})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slot is no longer available"})
	case errors.Is(err, apperr.ErrIllegalTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "transition not allowed from current state"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error("Internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
