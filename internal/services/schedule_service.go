package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/models"
	"github.com/trainsapp/trains-backend/internal/realtime"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrInvalidTimes     = errors.New("arrive_at must be after depart_at")
)

type ScheduleService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewScheduleService(db *gorm.DB, notifier Notifier) *ScheduleService {
	return &ScheduleService{db: db, notifier: notifier}
}

// List returns the schedules departing on the given day, optionally filtered
// by route and train type, ordered by departure, with the route and its
// ordered stops embedded.
func (s *ScheduleService) List(date string, routeID, trainType string, page, pageSize int) (*dto.PaginatedSchedules, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&models.Schedule{}).
		Where("depart_at >= ? AND depart_at < ?", day, day.Add(24*time.Hour))
	if routeID != "" {
		query = query.Where("route_id = ?", routeID)
	}
	if trainType != "" {
		query = query.Where("train_type = ?", trainType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}

	var items []models.Schedule
	err = query.
		Order("depart_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Route").
		Preload("Route.Stops", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Route.Stops.Stop").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return &dto.PaginatedSchedules{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *ScheduleService) Create(req *dto.CreateScheduleRequest) (*models.Schedule, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, errors.New("route_id is required")
	}

	var route models.Route
	if err := s.db.First(&route, "id = ?", routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	departAt, arriveAt, err := parseTimes(req.DepartAt, req.ArriveAt)
	if err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		ID:        uuid.New(),
		RouteID:   routeID,
		TrainType: req.TrainType,
		DepartAt:  departAt,
		ArriveAt:  arriveAt,
		Status:    models.StatusOnTime,
	}
	if req.Status != "" {
		schedule.Status = req.Status
	}
	if req.DelayMinutes != nil {
		schedule.DelayMinutes = *req.DelayMinutes
	}

	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.notifier.EmitScheduleChanged(realtime.Created, schedule.ID)
	return &schedule, nil
}

func (s *ScheduleService) Update(id uuid.UUID, req *dto.UpdateScheduleRequest) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if req.DepartAt != nil || req.ArriveAt != nil {
		departStr := schedule.DepartAt.Format(time.RFC3339)
		arriveStr := schedule.ArriveAt.Format(time.RFC3339)
		if req.DepartAt != nil {
			departStr = *req.DepartAt
		}
		if req.ArriveAt != nil {
			arriveStr = *req.ArriveAt
		}
		departAt, arriveAt, err := parseTimes(departStr, arriveStr)
		if err != nil {
			return nil, err
		}
		schedule.DepartAt = departAt
		schedule.ArriveAt = arriveAt
	}
	if req.TrainType != nil {
		schedule.TrainType = *req.TrainType
	}
	if req.Status != nil {
		schedule.Status = *req.Status
	}
	if req.DelayMinutes != nil {
		schedule.DelayMinutes = *req.DelayMinutes
	}

	if err := s.db.Save(&schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	s.notifier.EmitScheduleChanged(realtime.Updated, schedule.ID)
	return &schedule, nil
}

func (s *ScheduleService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Schedule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}

	s.notifier.EmitScheduleChanged(realtime.Deleted, id)
	return nil
}

func parseTimes(departStr, arriveStr string) (time.Time, time.Time, error) {
	departAt, err := time.Parse(time.RFC3339, departStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid depart_at: %w", err)
	}
	arriveAt, err := time.Parse(time.RFC3339, arriveStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid arrive_at: %w", err)
	}
	if !arriveAt.After(departAt) {
		return time.Time{}, time.Time{}, ErrInvalidTimes
	}
	return departAt, arriveAt, nil
}
