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

var (
	ErrStopNotFound = errors.New("stop not found")
	ErrStopTaken    = errors.New("stop with this name and city already exists")
)

type StopService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewStopService(db *gorm.DB, notifier Notifier) *StopService {
	return &StopService{db: db, notifier: notifier}
}

func (s *StopService) List() ([]models.Stop, error) {
	var stops []models.Stop
	if err := s.db.Order("name ASC").Find(&stops).Error; err != nil {
		return nil, fmt.Errorf("failed to list stops: %w", err)
	}
	return stops, nil
}

func (s *StopService) Create(req *dto.CreateStopRequest) (*models.Stop, error) {
	if req.Name == "" || req.City == "" {
		return nil, errors.New("name and city are required")
	}

	stop := models.Stop{ID: uuid.New(), Name: req.Name, City: req.City, Lat: req.Lat, Lng: req.Lng}
	if err := s.db.Create(&stop).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStopTaken
		}
		return nil, fmt.Errorf("failed to create stop: %w", err)
	}

	s.notifier.EmitStopChanged(realtime.Created, stop.ID)
	return &stop, nil
}

func (s *StopService) Update(id uuid.UUID, req *dto.UpdateStopRequest) (*models.Stop, error) {
	var stop models.Stop
	if err := s.db.First(&stop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStopNotFound
		}
		return nil, fmt.Errorf("failed to load stop: %w", err)
	}

	if req.Name != nil {
		stop.Name = *req.Name
	}
	if req.City != nil {
		stop.City = *req.City
	}
	if req.Lat != nil {
		stop.Lat = req.Lat
	}
	if req.Lng != nil {
		stop.Lng = req.Lng
	}

	if err := s.db.Save(&stop).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStopTaken
		}
		return nil, fmt.Errorf("failed to update stop: %w", err)
	}

	s.notifier.EmitStopChanged(realtime.Updated, stop.ID)
	return &stop, nil
}

func (s *StopService) Delete(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stop_id = ?", id).Delete(&models.RouteStop{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Stop{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStopNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStopNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete stop: %w", err)
	}

	s.notifier.EmitStopChanged(realtime.Deleted, id)
	return nil
}
