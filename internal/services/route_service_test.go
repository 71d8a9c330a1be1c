package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/models"
	"github.com/trainsapp/trains-backend/internal/realtime"
	"gorm.io/gorm"
)

func mustCreateStop(t *testing.T, db *gorm.DB, name, city string) models.Stop {
	t.Helper()
	stop := models.Stop{ID: uuid.New(), Name: name, City: city}
	if err := db.Create(&stop).Error; err != nil {
		t.Fatalf("create stop %s: %v", name, err)
	}
	return stop
}

func TestCreateRouteEmitsCreated(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRouteService(db, notifier)

	route, err := svc.Create(&dto.CreateRouteRequest{Name: "Kyiv → Lviv (fast line)", Code: "IC-721"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	got := notifier.last(t)
	if got.event != realtime.EventRouteChanged || got.kind != realtime.Created || got.id != route.ID {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestCreateRouteDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewRouteService(db, &fakeNotifier{})

	if _, err := svc.Create(&dto.CreateRouteRequest{Name: "Kyiv → Odesa", Code: "IC-765"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(&dto.CreateRouteRequest{Name: "Kyiv → Odesa", Code: "R-100"})
	if !errors.Is(err, ErrRouteNameTaken) {
		t.Fatalf("want ErrRouteNameTaken, got %v", err)
	}
}

func TestSetStopsReplacesWholesale(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRouteService(db, notifier)

	route, err := svc.Create(&dto.CreateRouteRequest{Name: "Kyiv → Lviv", Code: "IC-721"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	kyiv := mustCreateStop(t, db, "Kyiv-Pasazhyrskyi", "Kyiv")
	fastiv := mustCreateStop(t, db, "Fastiv", "Fastiv")
	lviv := mustCreateStop(t, db, "Lviv", "Lviv")

	first, err := svc.SetStops(route.ID, &dto.SetStopsRequest{Stops: []dto.RouteStopEntry{
		{StopID: kyiv.ID.String(), Order: 1, MinutesFromStart: 0},
		{StopID: lviv.ID.String(), Order: 2, MinutesFromStart: 310},
	}})
	if err != nil {
		t.Fatalf("first SetStops: %v", err)
	}
	if len(first.Stops) != 2 {
		t.Fatalf("want 2 stops, got %d", len(first.Stops))
	}

	got := notifier.last(t)
	if got.event != realtime.EventRouteChanged || got.kind != realtime.Updated || got.id != route.ID {
		t.Fatalf("SetStops must emit route.changed UPDATED, got %+v", got)
	}

	// the second call discards the old list entirely
	second, err := svc.SetStops(route.ID, &dto.SetStopsRequest{Stops: []dto.RouteStopEntry{
		{StopID: kyiv.ID.String(), Order: 1, MinutesFromStart: 0},
		{StopID: fastiv.ID.String(), Order: 2, MinutesFromStart: 45},
		{StopID: lviv.ID.String(), Order: 3, MinutesFromStart: 310},
	}})
	if err != nil {
		t.Fatalf("second SetStops: %v", err)
	}
	if len(second.Stops) != 3 {
		t.Fatalf("want 3 stops after replacement, got %d", len(second.Stops))
	}
	for i, link := range second.Stops {
		if link.Position != i+1 {
			t.Fatalf("stops must come back ordered by position, got %+v", second.Stops)
		}
	}
	if second.Stops[1].Stop.Name != "Fastiv" {
		t.Fatalf("stop details must be embedded, got %+v", second.Stops[1])
	}
}

func TestSetStopsUnknownRoute(t *testing.T) {
	db := newTestDB(t)
	svc := NewRouteService(db, &fakeNotifier{})

	_, err := svc.SetStops(uuid.New(), &dto.SetStopsRequest{})
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("want ErrRouteNotFound, got %v", err)
	}
}

func TestDeleteRouteCascades(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewRouteService(db, notifier)

	route, err := svc.Create(&dto.CreateRouteRequest{Name: "Kyiv → Lviv", Code: "IC-721"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	kyiv := mustCreateStop(t, db, "Kyiv-Pasazhyrskyi", "Kyiv")
	if _, err := svc.SetStops(route.ID, &dto.SetStopsRequest{Stops: []dto.RouteStopEntry{
		{StopID: kyiv.ID.String(), Order: 1},
	}}); err != nil {
		t.Fatalf("SetStops: %v", err)
	}
	userID := uuid.New()
	if err := db.Create(&models.User{ID: userID, Email: "user@example.com", Password: "x", Role: models.RoleUser}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&models.Favorite{UserID: userID, RouteID: route.ID}).Error; err != nil {
		t.Fatalf("create favorite: %v", err)
	}

	if err := svc.Delete(route.ID); err != nil {
		t.Fatalf("delete route: %v", err)
	}

	got := notifier.last(t)
	if got.kind != realtime.Deleted || got.id != route.ID {
		t.Fatalf("unexpected event %+v", got)
	}

	var links, favorites int64
	db.Model(&models.RouteStop{}).Where("route_id = ?", route.ID).Count(&links)
	db.Model(&models.Favorite{}).Where("route_id = ?", route.ID).Count(&favorites)
	if links != 0 || favorites != 0 {
		t.Fatalf("delete must cascade, got links=%d favorites=%d", links, favorites)
	}

	if err := svc.Delete(route.ID); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("second delete: want ErrRouteNotFound, got %v", err)
	}
}
