package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a route a user wants quick access to.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RouteID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"route_id"`
	Route     Route     `gorm:"foreignKey:RouteID" json:"route"`
	CreatedAt time.Time `json:"created_at"`
}
