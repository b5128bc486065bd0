package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type ParcelRepository struct {
	db *gorm.DB
}

func NewParcelRepository(db *gorm.DB) *ParcelRepository {
	return &ParcelRepository{db}
}

func (r *ParcelRepository) Create(p *model.Parcel) error {
	return r.db.Create(p).Error
}

func (r *ParcelRepository) FindByID(id uuid.UUID) (*model.Parcel, error) {
	var p model.Parcel
	err := r.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("parcel not found")
	}
	return &p, err
}

func (r *ParcelRepository) List(onlyUnassigned bool) ([]model.Parcel, error) {
	var parcels []model.Parcel
	q := r.db.Order("number ASC")
	if onlyUnassigned {
		q = q.Where("concept_assignment_id IS NULL")
	}
	err := q.Find(&parcels).Error
	return parcels, err
}
