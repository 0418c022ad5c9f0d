package models

import "time"

type Habit struct {
	ID                       string    `gorm:"primaryKey;size:36" json:"id"`
	UserID                   uint      `gorm:"not null;uniqueIndex:uidx_habits_user" json:"-"`
	Name                     string    `gorm:"not null" json:"name"`
	SupplementaryDescription *string   `json:"supplementary_description"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}
