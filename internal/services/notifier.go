package services

import (
	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/realtime"
)

// Notifier receives entity-change notifications after a write has committed.
// Emission is a hint for clients to refetch, never part of the transaction;
// *realtime.Hub is the production implementation.
type Notifier interface {
	EmitScheduleChanged(kind realtime.ChangeKind, scheduleID uuid.UUID)
	EmitRouteChanged(kind realtime.ChangeKind, routeID uuid.UUID)
	EmitStopChanged(kind realtime.ChangeKind, stopID uuid.UUID)
}
