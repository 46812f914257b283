package models

// Role is the authorization role carried by a user and their token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller of a request, resolved from a bearer token.
type Identity struct {
	UserID   ID
	Role     Role
	Username string
}
