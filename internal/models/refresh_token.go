package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record of an issued refresh token, keyed by
// the jti claim embedded in the token itself. Records are append-only: the only
// mutation ever applied is flipping Revoked to true, which is terminal. Expired
// and revoked rows stay queryable for tracing.
type RefreshToken struct {
	JTI       uuid.UUID `gorm:"type:uuid;primaryKey;column:jti" json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:64" json:"-"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
