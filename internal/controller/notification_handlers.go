package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
)

// ListNotifications returns the actor's unexpired notifications.
func (ctl *Controller) ListNotifications(c *gin.Context) {
	notifications, err := ctl.notifications.ListForRecipient(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead acknowledges one of the actor's notifications.
func (ctl *Controller) MarkNotificationRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	if err := ctl.notifications.MarkRead(c.Request.Context(), id, actorFrom(c).ID); err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type screeningRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	Severity  string `json:"severity" binding:"required"`
}

// RecordScreening is the ingress for the questionnaire-scoring
// collaborator: severe results fan an alert out to every active admin.
func (ctl *Controller) RecordScreening(c *gin.Context) {
	var req screeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	severity := model.ScreeningSeverity(req.Severity)
	switch severity {
	case model.ScreeningSeverityMinimal, model.ScreeningSeverityMild, model.ScreeningSeverityModerate,
		model.ScreeningSeverityModeratelySevere, model.ScreeningSeveritySevere:
	default:
		respondError(c, ctl.logger, apperr.Validationf("severity", "unknown severity %q", req.Severity))
		return
	}

	ctl.dispatcher.ScreeningAlert(c.Request.Context(), model.ScreeningResult{
		StudentID: req.StudentID,
		Severity:  severity,
	})

	c.Status(http.StatusAccepted)
}
