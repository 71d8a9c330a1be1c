package models

import (
	"time"

	"github.com/google/uuid"
)

// Stop is a station a route can pass through.
type Stop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255;uniqueIndex:idx_stops_name_city" json:"name"`
	City      string    `gorm:"not null;size:255;uniqueIndex:idx_stops_name_city" json:"city"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
