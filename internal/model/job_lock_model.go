package model

import "time"

// JobLock coordinates the scheduled jobs across process instances: a
// tick runs only in the instance that moved LockedUntil forward.
type JobLock struct {
	Name        string    `gorm:"type:varchar(50);primaryKey" json:"name"`
	LockedBy    string    `gorm:"type:varchar(100)" json:"locked_by"`
	LockedUntil time.Time `gorm:"not null" json:"locked_until"`
	UpdatedAt   time.Time `json:"updated_at"`
}
