package repository

import (
	"errors"
	"time"

	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobLockRepository struct {
	db *gorm.DB
}

func NewJobLockRepository(db *gorm.DB) *JobLockRepository {
	return &JobLockRepository{db}
}

// TryAcquire claims the named lock for hold starting at now. Returns
// false when another instance still holds it. The row is locked FOR
// UPDATE so two instances cannot both see an expired lock.
func (r *JobLockRepository) TryAcquire(name, owner string, hold time.Duration, now time.Time) (bool, error) {
	acquired := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var lock model.JobLock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&lock, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			lock = model.JobLock{Name: name, LockedBy: owner, LockedUntil: now.Add(hold)}
			if err := tx.Create(&lock).Error; err != nil {
				return err
			}
			acquired = true
			return nil
		}
		if err != nil {
			return err
		}
		if lock.LockedUntil.After(now) {
			return nil
		}
		res := tx.Model(&model.JobLock{}).
			Where("name = ? AND locked_until <= ?", name, now).
			Updates(map[string]any{"locked_by": owner, "locked_until": now.Add(hold)})
		if res.Error != nil {
			return res.Error
		}
		acquired = res.RowsAffected > 0
		return nil
	})
	return acquired, err
}
