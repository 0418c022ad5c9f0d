package models

import "time"

// User is the local record of an externally verified identity.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
