package models

import (
	"time"

	"github.com/google/uuid"
)

// Train types.
const (
	TrainIntercity = "INTERCITY"
	TrainRegional  = "REGIONAL"
	TrainNight     = "NIGHT"
)

// Schedule statuses.
const (
	StatusOnTime    = "ON_TIME"
	StatusDelayed   = "DELAYED"
	StatusCancelled = "CANCELLED"
)

// Schedule is a single dated run of a route.
type Schedule struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID      uuid.UUID `gorm:"type:uuid;not null;index" json:"route_id"`
	TrainType    string    `gorm:"size:20;not null;index" json:"train_type"`
	DepartAt     time.Time `gorm:"not null;index" json:"depart_at"`
	ArriveAt     time.Time `gorm:"not null" json:"arrive_at"`
	Status       string    `gorm:"size:20;not null;default:'ON_TIME'" json:"status"`
	DelayMinutes int       `gorm:"not null;default:0" json:"delay_minutes"`
	Route        Route     `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
