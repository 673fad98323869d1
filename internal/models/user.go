package models

import "time"

// Role is the closed set of account types. A user's role is fixed at
// registration; there is no role-change operation.
type Role string

const (
	RoleTherapist Role = "therapist"
	RoleClient    Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleTherapist || r == RoleClient
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname,omitempty"`
	PasswordHash string    `json:"-"` // Hide from JSON responses
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsTherapist() bool { return u.Role == RoleTherapist }

func (u *User) IsClient() bool { return u.Role == RoleClient }
