package models

import (
	"time"
)

// User is a staff account that can authenticate against the API.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phoneNumber"`
	Age          int    `json:"age"`
	ProfileImage string `gorm:"type:text" json:"profileImage"`
	Logo         string `gorm:"type:text" json:"logo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
