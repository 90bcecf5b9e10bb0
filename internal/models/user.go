package models

import "time"

type User struct {
	ID           int64     `json:"id" example:"1"`                    // User ID
	Email        string    `json:"email" example:"user@example.com"`  // User email
	FirstName    string    `json:"firstName" example:"John"`          // User first name
	LastName     string    `json:"lastName" example:"Doe"`            // User last name
	PhoneNumber  string    `json:"phoneNumber" example:"05551234567"` // 11-digit phone number
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
