package models

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type User struct {
	ID    string   `json:"id" bson:"_id"`
	Email string   `json:"email" bson:"email" validate:"required,email"`
	Name  string   `json:"name" bson:"name"`
	Role  UserRole `json:"role" bson:"role" default:"user"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// Account is the stored credential record behind a User.
type Account struct {
	User         User   `json:"user"`
	PasswordHash string `json:"password_hash"`
}
