package model

// Role is the single authorization attribute of a user
type Role string

// Role codes as constants
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
