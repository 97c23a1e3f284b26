package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff account. Workflow access is decided by the three boolean
// capabilities plus the superuser flag, which implies all of them.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"type:varchar(255)" json:"full_name"`
	Cargo    string    `gorm:"type:varchar(200)" json:"cargo"` // job title printed on payment orders
	Password string    `gorm:"type:varchar(255);not null" json:"-"`

	IsCreator   bool `gorm:"default:false" json:"is_creator"`
	IsReviewer  bool `gorm:"default:false" json:"is_reviewer"`
	IsApprover  bool `gorm:"default:false" json:"is_approver"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
