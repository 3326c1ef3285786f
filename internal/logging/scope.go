package logging

import (
	"time"

	"gorm.io/gorm"
)

// RecordedBefore returns a GORM scope that filters system logs by age.
func RecordedBefore(cutoff time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("timestamp < ?", cutoff)
	}
}
