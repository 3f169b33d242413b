// Package controller exposes the booking engine over HTTP. The identity
// collaborator authenticates upstream; handlers only translate between
// JSON and the service layer's vocabulary.
package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/service"
)

type Controller struct {
	availability  *service.AvailabilityService
	bookings      *service.BookingService
	notifications *service.NotificationService
	dispatcher    service.Dispatcher
	logger        *zap.Logger
}

func NewController(
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	notifications *service.NotificationService,
	dispatcher service.Dispatcher,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		availability:  availability,
		bookings:      bookings,
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Router builds the HTTP surface.
func (ctl *Controller) Router(env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1", ActorMiddleware())

	api.GET("/counsellors/:id/slots", ctl.ListSlots)
	api.GET("/counsellors/:id/availability", ctl.ListAvailability)
	api.PUT("/counsellors/:id/availability", ctl.ReplaceAvailability)

	api.POST("/bookings", ctl.CreateBooking)
	api.GET("/bookings", ctl.ListBookings)
	api.GET("/bookings/:id", ctl.GetBooking)
	api.POST("/bookings/:id/approve", ctl.transitionHandler(service.TransitionApprove))
	api.POST("/bookings/:id/reject", ctl.transitionHandler(service.TransitionReject))
	api.POST("/bookings/:id/cancel", ctl.transitionHandler(service.TransitionCancel))
	api.POST("/bookings/:id/reschedule", ctl.transitionHandler(service.TransitionReschedule))
	api.POST("/bookings/:id/complete", ctl.transitionHandler(service.TransitionComplete))
	api.POST("/bookings/:id/no-show", ctl.transitionHandler(service.TransitionNoShow))

	api.GET("/notifications", ctl.ListNotifications)
	api.POST("/notifications/:id/read", ctl.MarkNotificationRead)

	api.POST("/screenings", ctl.RecordScreening)

	api.DELETE("/admin/users/:id/bookings", ctl.PurgeUserBookings)

	return r
}
