package user

import "time"

// User is a dashboard operator account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
