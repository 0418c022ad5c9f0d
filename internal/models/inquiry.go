package models

import "time"

type Inquiry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null" json:"email"`
	Message       string    `gorm:"not null" json:"message"`
	SubmitterHash string    `gorm:"not null;default:'';index" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
