package models

import (
	"time"

	"gorm.io/gorm"
)

type Manager struct {
	gorm.Model
	Name      string     `gorm:"default:''" json:"name"`
	Email     string     `gorm:"unique;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      string     `gorm:"default:'MANAGER'" json:"role"`
	LastLogin *time.Time `json:"lastLogin"`
	IsDeleted bool       `gorm:"default:false" json:"-"`
}
