package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/service"
)

type createBookingRequest struct {
	CounsellorID int64     `json:"counsellor_id" binding:"required"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required"`
	Notes        string    `json:"notes"`
}

// CreateBooking files a student's booking request against a counsellor slot.
func (ctl *Controller) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	booking, err := ctl.bookings.Create(c.Request.Context(), actorFrom(c), req.CounsellorID, req.StartAt, req.EndAt, req.Notes)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns one booking visible to the actor.
func (ctl *Controller) GetBooking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	booking, err := ctl.bookings.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings returns the actor's bookings; admins pass ?user_id= to
// inspect someone else's ledger.
func (ctl *Controller) ListBookings(c *gin.Context) {
	actor := actorFrom(c)

	userID := actor.ID
	if v := c.Query("user_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(c, ctl.logger, apperr.Validationf("user_id", "must be a positive integer"))
			return
		}
		userID = parsed
	}

	bookings, err := ctl.bookings.List(c.Request.Context(), actor, userID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type transitionRequest struct {
	Notes         string     `json:"notes"`
	Reason        string     `json:"reason"`
	NewStartAt    time.Time  `json:"new_start_at"`
	NewEndAt      time.Time  `json:"new_end_at"`
	ActualStartAt *time.Time `json:"actual_start_at"`
	ActualEndAt   *time.Time `json:"actual_end_at"`
}

// transitionHandler builds the handler for one state-machine edge.
func (ctl *Controller) transitionHandler(name service.TransitionName) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			respondError(c, ctl.logger, err)
			return
		}

		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			respondError(c, ctl.logger, err)
			return
		}

		booking, err := ctl.bookings.Transition(c.Request.Context(), actorFrom(c), id, name, service.TransitionInput{
			Notes:         req.Notes,
			Reason:        req.Reason,
			NewStartAt:    req.NewStartAt,
			NewEndAt:      req.NewEndAt,
			ActualStartAt: req.ActualStartAt,
			ActualEndAt:   req.ActualEndAt,
		})
		if err != nil {
			respondError(c, ctl.logger, err)
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}

// PurgeUserBookings is the administrative cascade: removes a deleted
// user's non-active bookings.
func (ctl *Controller) PurgeUserBookings(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	removed, err := ctl.bookings.PurgeUserBookings(c.Request.Context(), actorFrom(c), userID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
