package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(u *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdatePassword(id uuid.UUID, passwordHash string) error
	SaveUserData(data *model.UserData) error
	CreatePasswordReset(reset *model.PasswordReset) error
	FindPasswordReset(token string) (*model.PasswordReset, error)
	MarkPasswordResetUsed(id uuid.UUID, at time.Time) error
}

type NotificationStore interface {
	Enqueue(n *model.Notification) error
}

type AuthUsecase struct {
	users         UserStore
	notifications NotificationStore
	jwtSecret     []byte
	tokenTTL      time.Duration
	resetTTL      time.Duration
	clock         func() time.Time
}

func NewAuthUsecase(users UserStore, notifications NotificationStore, jwtSecret string, tokenTTL, resetTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		notifications: notifications,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		resetTTL:      resetTTL,
		clock:         time.Now,
	}
}

func (uc *AuthUsecase) Register(email, password string, data *model.UserData) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.Validation("a valid email address is required")
	}
	if len(password) < 8 {
		return nil, apperror.Validation("password must have at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("could not hash password", err)
	}
	u := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleCandidate,
		Status:       model.UserStatusActive,
	}
	if err := uc.users.Create(u); err != nil {
		return nil, err
	}
	if data != nil {
		data.UserID = u.ID
		if err := uc.users.SaveUserData(data); err != nil {
			return nil, apperror.Internal("could not store user data", err)
		}
		u.UserData = data
	}
	return u, nil
}

// Login verifies the password and issues a signed token. Blocked and
// inactive accounts cannot log in.
func (uc *AuthUsecase) Login(email, password string) (string, *model.User, error) {
	u, err := uc.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, apperror.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.Validation("invalid credentials")
	}
	if u.Status != model.UserStatusActive && u.Status != model.UserStatusDelegated {
		return "", nil, apperror.Validation("account is not active")
	}

	now := uc.clock()
	claims := jwt.MapClaims{
		"sub":  u.ID.String(),
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(uc.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return "", nil, apperror.Internal("could not sign token", err)
	}
	return token, u, nil
}

// RequestPasswordReset never reveals whether the address is known; for
// known users it enqueues a reset mail through the outbox.
func (uc *AuthUsecase) RequestPasswordReset(email string) error {
	u, err := uc.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return apperror.Internal("could not generate reset token", err)
	}
	token := hex.EncodeToString(buf)

	reset := &model.PasswordReset{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: uc.clock().Add(uc.resetTTL),
	}
	if err := uc.users.CreatePasswordReset(reset); err != nil {
		return apperror.Internal("could not store password reset", err)
	}
	data, _ := json.Marshal(map[string]string{"token": token})
	return uc.notifications.Enqueue(&model.Notification{
		UserID: u.ID,
		Type:   model.NotificationPasswordReset,
		Data:   data,
	})
}

func (uc *AuthUsecase) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.Validation("password must have at least 8 characters")
	}
	reset, err := uc.users.FindPasswordReset(token)
	if err != nil {
		return apperror.Validation("invalid or expired reset token")
	}
	now := uc.clock()
	if reset.UsedAt != nil || now.After(reset.ExpiresAt) {
		return apperror.Validation("invalid or expired reset token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("could not hash password", err)
	}
	if err := uc.users.UpdatePassword(reset.UserID, string(hash)); err != nil {
		return apperror.Internal("could not update password", err)
	}
	return uc.users.MarkPasswordResetUsed(reset.ID, now)
}
