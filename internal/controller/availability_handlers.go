package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
)

type windowRequest struct {
	Weekday         int `json:"weekday" binding:"min=0,max=6"`
	StartMinute     int `json:"start_minute" binding:"min=0,max=1439"`
	EndMinute       int `json:"end_minute" binding:"min=0,max=1439"`
	DurationMinutes int `json:"duration_minutes" binding:"required,min=15,max=180"`
	GapMinutes      int `json:"gap_minutes" binding:"min=0,max=60"`
	MaxSessions     int `json:"max_sessions" binding:"min=0,max=10"`
}

type replaceAvailabilityRequest struct {
	Windows []windowRequest `json:"windows" binding:"required,dive"`
}

// ReplaceAvailability swaps the counsellor's whole schedule wholesale.
func (ctl *Controller) ReplaceAvailability(c *gin.Context) {
	counsellorID, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	var req replaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	windows := make([]*model.AvailabilityWindow, 0, len(req.Windows))
	for _, w := range req.Windows {
		windows = append(windows, &model.AvailabilityWindow{
			Weekday:         w.Weekday,
			StartMinute:     w.StartMinute,
			EndMinute:       w.EndMinute,
			DurationMinutes: w.DurationMinutes,
			GapMinutes:      w.GapMinutes,
			MaxSessions:     w.MaxSessions,
		})
	}

	if err := ctl.availability.ReplaceWindows(c.Request.Context(), actorFrom(c), counsellorID, windows); err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// ListAvailability returns the counsellor's current window set.
func (ctl *Controller) ListAvailability(c *gin.Context) {
	counsellorID, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	windows, err := ctl.availability.ListWindows(c.Request.Context(), counsellorID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// ListSlots returns the conflict-filtered candidate slots for one date.
// The listing is advisory; creation re-checks under the serialization
// boundary.
func (ctl *Controller) ListSlots(c *gin.Context) {
	counsellorID, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		respondError(c, ctl.logger, apperr.Validationf("date", "must be formatted YYYY-MM-DD"))
		return
	}

	slots, err := ctl.availability.AvailableSlots(c.Request.Context(), counsellorID, date)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf(name, "must be a positive integer")
	}
	return id, nil
}
