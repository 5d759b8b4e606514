package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           string    `json:"id" db:"id" example:"7f1c2b1e-2f0a-4a59-9d43-0f0d7c1c9a11"`
	Username     string    `json:"username" db:"username" example:"jdoe"`
	Email        string    `json:"email" db:"email" example:"jdoe@example.com"`
	FullName     string    `json:"fullName" db:"full_name" example:"John Doe"`
	Role         Role      `json:"role" db:"role" example:"mentor"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
