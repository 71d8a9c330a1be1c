package models

import (
	"time"

	"github.com/google/uuid"
)

// Route is a named train line with an ordered list of stops.
type Route struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"not null;size:255;uniqueIndex" json:"name"`
	Code      string      `gorm:"size:50" json:"code"`
	Stops     []RouteStop `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"stops,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RouteStop links a stop into a route at a given position.
// The column is named position because "order" is reserved in SQL;
// the JSON key keeps the client-facing name.
type RouteStop struct {
	RouteID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	StopID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Position         int       `gorm:"not null" json:"order"`
	MinutesFromStart int       `gorm:"not null;default:0" json:"minutes_from_start"`
	Stop             Stop      `gorm:"foreignKey:StopID" json:"stop"`
}
