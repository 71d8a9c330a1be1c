package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/models"
	"github.com/trainsapp/trains-backend/internal/realtime"
)

func TestStopLifecycleEmitsEvents(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewStopService(db, notifier)

	stop, err := svc.Create(&dto.CreateStopRequest{Name: "Fastiv", City: "Fastiv"})
	if err != nil {
		t.Fatalf("create stop: %v", err)
	}
	if got := notifier.last(t); got.event != realtime.EventStopChanged || got.kind != realtime.Created || got.id != stop.ID {
		t.Fatalf("unexpected create event %+v", got)
	}

	newName := "Fastiv-1"
	if _, err := svc.Update(stop.ID, &dto.UpdateStopRequest{Name: &newName}); err != nil {
		t.Fatalf("update stop: %v", err)
	}
	if got := notifier.last(t); got.kind != realtime.Updated || got.id != stop.ID {
		t.Fatalf("unexpected update event %+v", got)
	}

	if err := svc.Delete(stop.ID); err != nil {
		t.Fatalf("delete stop: %v", err)
	}
	if got := notifier.last(t); got.kind != realtime.Deleted || got.id != stop.ID {
		t.Fatalf("unexpected delete event %+v", got)
	}
}

func TestCreateStopDuplicateNameAndCity(t *testing.T) {
	db := newTestDB(t)
	svc := NewStopService(db, &fakeNotifier{})

	if _, err := svc.Create(&dto.CreateStopRequest{Name: "Lviv", City: "Lviv"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(&dto.CreateStopRequest{Name: "Lviv", City: "Lviv"}); !errors.Is(err, ErrStopTaken) {
		t.Fatalf("want ErrStopTaken, got %v", err)
	}

	// the same name in a different city is fine
	if _, err := svc.Create(&dto.CreateStopRequest{Name: "Lviv", City: "Elsewhere"}); err != nil {
		t.Fatalf("same name, other city: %v", err)
	}
}

func TestDeleteStopRemovesRouteLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewStopService(db, &fakeNotifier{})

	stop, err := svc.Create(&dto.CreateStopRequest{Name: "Fastiv", City: "Fastiv"})
	if err != nil {
		t.Fatalf("create stop: %v", err)
	}
	route := mustCreateRoute(t, db, "Kyiv → Lviv")
	if err := db.Create(&models.RouteStop{RouteID: route.ID, StopID: stop.ID, Position: 1}).Error; err != nil {
		t.Fatalf("create link: %v", err)
	}

	if err := svc.Delete(stop.ID); err != nil {
		t.Fatalf("delete stop: %v", err)
	}

	var links int64
	db.Model(&models.RouteStop{}).Where("stop_id = ?", stop.ID).Count(&links)
	if links != 0 {
		t.Fatalf("route links must be removed with the stop, got %d", links)
	}
}

func TestDeleteUnknownStop(t *testing.T) {
	db := newTestDB(t)
	svc := NewStopService(db, &fakeNotifier{})

	if err := svc.Delete(uuid.New()); !errors.Is(err, ErrStopNotFound) {
		t.Fatalf("want ErrStopNotFound, got %v", err)
	}
}
