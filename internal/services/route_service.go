package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/models"
	"github.com/trainsapp/trains-backend/internal/realtime"
	"gorm.io/gorm"
)

var ErrRouteNameTaken = errors.New("route name already exists")

type RouteService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewRouteService(db *gorm.DB, notifier Notifier) *RouteService {
	return &RouteService{db: db, notifier: notifier}
}

func (s *RouteService) List() ([]models.Route, error) {
	var routes []models.Route
	err := s.db.
		Order("name ASC").
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Stops.Stop").
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

func (s *RouteService) Get(id uuid.UUID) (*models.Route, error) {
	var route models.Route
	err := s.db.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Stops.Stop").
		First(&route, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	return &route, nil
}

func (s *RouteService) Create(req *dto.CreateRouteRequest) (*models.Route, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	route := models.Route{ID: uuid.New(), Name: req.Name, Code: req.Code}
	if err := s.db.Create(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRouteNameTaken
		}
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	s.notifier.EmitRouteChanged(realtime.Created, route.ID)
	return &route, nil
}

func (s *RouteService) Update(id uuid.UUID, req *dto.UpdateRouteRequest) (*models.Route, error) {
	var route models.Route
	if err := s.db.First(&route, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	if req.Name != nil {
		route.Name = *req.Name
	}
	if req.Code != nil {
		route.Code = *req.Code
	}

	if err := s.db.Save(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRouteNameTaken
		}
		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	s.notifier.EmitRouteChanged(realtime.Updated, route.ID)
	return &route, nil
}

func (s *RouteService) Delete(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", id).Delete(&models.RouteStop{}).Error; err != nil {
			return err
		}
		if err := tx.Where("route_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Route{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRouteNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete route: %w", err)
	}

	s.notifier.EmitRouteChanged(realtime.Deleted, id)
	return nil
}

// SetStops replaces a route's stop list wholesale with the given ordered set.
func (s *RouteService) SetStops(id uuid.UUID, req *dto.SetStopsRequest) (*models.Route, error) {
	links := make([]models.RouteStop, 0, len(req.Stops))
	for _, entry := range req.Stops {
		stopID, err := uuid.Parse(entry.StopID)
		if err != nil {
			return nil, fmt.Errorf("invalid stop_id %q", entry.StopID)
		}
		links = append(links, models.RouteStop{
			RouteID:          id,
			StopID:           stopID,
			Position:         entry.Order,
			MinutesFromStart: entry.MinutesFromStart,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var route models.Route
		if err := tx.First(&route, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRouteNotFound
			}
			return err
		}
		if err := tx.Where("route_id = ?", id).Delete(&models.RouteStop{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to set route stops: %w", err)
	}

	s.notifier.EmitRouteChanged(realtime.Updated, id)
	return s.Get(id)
}
