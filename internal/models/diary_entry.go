package models

import "time"

const (
	ReflectionVeryGood = "VERY_GOOD"
	ReflectionGood     = "GOOD"
	ReflectionMore     = "MORE"
)

// DiaryEntry is one user's record for one calendar day. Day is a date-only
// key (YYYY-MM-DD) so the (user_id, day) unique index never depends on a
// time-of-day or a timezone offset.
type DiaryEntry struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:uidx_diary_entries_user_day" json:"-"`
	Day             string    `gorm:"size:10;not null;uniqueIndex:uidx_diary_entries_user_day" json:"date"`
	Reflection      string    `gorm:"not null" json:"reflection"`
	AdditionalNotes string    `gorm:"not null;default:''" json:"additional_notes"`
	Praises         []Praise  `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"praises"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Praise struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	EntryID  string `gorm:"not null;index" json:"entry_id"`
	Position int    `gorm:"not null" json:"position"`
	Text     string `gorm:"not null" json:"text"`
}
