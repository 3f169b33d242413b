package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestActorMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/probe", ActorMiddleware(), func(c *gin.Context) {
		actor := actorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})

	tests := []struct {
		name       string
		id, role   string
		wantStatus int
	}{
		{"valid student", "7", string(model.RoleStudent), http.StatusOK},
		{"valid admin", "100", string(model.RoleAdmin), http.StatusOK},
		{"missing id", "", string(model.RoleStudent), http.StatusUnauthorized},
		{"non-numeric id", "abc", string(model.RoleStudent), http.StatusUnauthorized},
		{"zero id", "0", string(model.RoleStudent), http.StatusUnauthorized},
		{"missing role", "7", "", http.StatusUnauthorized},
		{"unknown role", "7", "superuser", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.id != "" {
				req.Header.Set("X-Actor-ID", tt.id)
			}
			if tt.role != "" {
				req.Header.Set("X-Actor-Role", tt.role)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		err        error
		wantStatus int
	}{
		{apperr.Validationf("weekday", "must be between 0 and 6"), http.StatusBadRequest},
		{apperr.ErrPastTime, http.StatusBadRequest},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrIllegalTransition, http.StatusUnprocessableEntity},
		{apperr.IllegalTransitionf("approve", "cancelled"), http.StatusUnprocessableEntity},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.NotFoundf("booking"), http.StatusNotFound},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := gin.New()
			r.GET("/fail", func(c *gin.Context) { respondError(c, logger, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestValidationErrorResponseCarriesField(t *testing.T) {
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		respondError(c, zap.NewNop(), apperr.Validationf("start_minute", "must be before end_minute"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"start_minute"`)
}
