package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:uq_users_email"`
	Username     string    `gorm:"column:username;not null;uniqueIndex:uq_users_username"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    *string   `gorm:"column:first_name"`
	LastName     *string   `gorm:"column:last_name"`
	Phone        *string   `gorm:"column:phone"`
	Address      *string   `gorm:"column:address"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
