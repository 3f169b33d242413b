package service

import (
	"github.com/campuswell/counselbook/internal/model"
)

// TransitionName identifies one edge of the booking lifecycle.
type TransitionName string

const (
	TransitionApprove    TransitionName = "approve"
	TransitionReject     TransitionName = "reject"
	TransitionCancel     TransitionName = "cancel"
	TransitionReschedule TransitionName = "reschedule"
	TransitionComplete   TransitionName = "complete"
	TransitionNoShow     TransitionName = "no_show"
)

// transition is one allowed edge: who may trigger it and from which states.
// Administrators may additionally trigger any edge with AdminOverride set,
// bypassing ownership but never the from-state precondition.
type transition struct {
	Roles         []model.Role
	From          []model.BookingStatus
	To            model.BookingStatus
	AdminOverride bool
}

var transitionTable = map[TransitionName]transition{
	TransitionApprove: {
		Roles:         []model.Role{model.RoleCounsellor},
		From:          []model.BookingStatus{model.BookingStatusPending},
		To:            model.BookingStatusConfirmed,
		AdminOverride: true,
	},
	TransitionReject: {
		Roles:         []model.Role{model.RoleCounsellor},
		From:          []model.BookingStatus{model.BookingStatusPending},
		To:            model.BookingStatusCancelled,
		AdminOverride: true,
	},
	// A rescheduled booking is a confirmed booking on a moved slot, so
	// every edge out of confirmed also accepts rescheduled.
	TransitionCancel: {
		Roles:         []model.Role{model.RoleStudent},
		From:          []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusRescheduled},
		To:            model.BookingStatusCancelled,
		AdminOverride: true,
	},
	// Reschedule moves the slot itself, not just the status, so it stays
	// counsellor-only: admin override covers status and notes.
	TransitionReschedule: {
		Roles: []model.Role{model.RoleCounsellor},
		From:  []model.BookingStatus{model.BookingStatusConfirmed, model.BookingStatusRescheduled},
		To:    model.BookingStatusRescheduled,
	},
	TransitionComplete: {
		Roles:         []model.Role{model.RoleCounsellor},
		From:          []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusRescheduled},
		To:            model.BookingStatusCompleted,
		AdminOverride: true,
	},
	TransitionNoShow: {
		Roles:         []model.Role{model.RoleCounsellor},
		From:          []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusRescheduled},
		To:            model.BookingStatusNoShow,
		AdminOverride: true,
	},
}

// lookupTransition returns the table entry for the name.
func lookupTransition(name TransitionName) (transition, bool) {
	tr, ok := transitionTable[name]
	return tr, ok
}

func (t transition) allowsRole(role model.Role) bool {
	if role == model.RoleAdmin && t.AdminOverride {
		return true
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (t transition) allowsFrom(status model.BookingStatus) bool {
	for _, s := range t.From {
		if s == status {
			return true
		}
	}
	return false
}
