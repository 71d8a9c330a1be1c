package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/models"
	"gorm.io/gorm"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteService manages per-user route bookmarks. Favorites never emit
// change events: they are private state, not shared entities.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

func (s *FavoriteService) List(userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.
		Where("user_id = ?", userID).
		Preload("Route").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func (s *FavoriteService) Add(userID, routeID uuid.UUID) (*models.Favorite, error) {
	var route models.Route
	if err := s.db.First(&route, "id = ?", routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	favorite := models.Favorite{UserID: userID, RouteID: routeID}
	if err := s.db.FirstOrCreate(&favorite, models.Favorite{UserID: userID, RouteID: routeID}).Error; err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	favorite.Route = route
	return &favorite, nil
}

func (s *FavoriteService) Remove(userID, routeID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND route_id = ?", userID, routeID).Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
