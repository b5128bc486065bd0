package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

type UserStatus string

const (
	RoleCandidate    UserRole = "CANDIDATE"
	RoleProjectGroup UserRole = "PROJECT_GROUP"
	RoleConsulting   UserRole = "CONSULTING"

	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusDelegated UserStatus = "DELEGATED"
	UserStatusBlocked   UserStatus = "BLOCKED"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`
	UserData     *UserData  `gorm:"foreignKey:UserID" json:"user_data,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserData holds the profile fields a candidate fills in once; kept apart
// from the credential row so delegation can swap profiles without
// touching login data.
type UserData struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
	Company   string    `gorm:"type:varchar(200)" json:"company"`
	Street    string    `gorm:"type:varchar(200)" json:"street"`
	ZipCode   string    `gorm:"type:varchar(10)" json:"zip_code"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
