package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Create(u *model.User) error {
	err := r.db.Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("a user with this email already exists")
	}
	return err
}

func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.Preload("UserData").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	return &u, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var u model.User
	err := r.db.Preload("UserData").First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	return &u, err
}

func (r *UserRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepository) SaveUserData(data *model.UserData) error {
	return r.db.Save(data).Error
}

func (r *UserRepository) CreatePasswordReset(reset *model.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *UserRepository) FindPasswordReset(token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.First(&reset, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("password reset not found")
	}
	return &reset, err
}

func (r *UserRepository) MarkPasswordResetUsed(id uuid.UUID, at time.Time) error {
	return r.db.Model(&model.PasswordReset{}).Where("id = ?", id).
		Update("used_at", at).Error
}
