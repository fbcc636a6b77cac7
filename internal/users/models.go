package users

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User never carries the password hash.
type User struct {
	ID               int64     `json:"user_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Faculty          *string   `json:"faculty"`
	UserGroup        *string   `json:"user_group"`
	AvatarURL        *string   `json:"avatar_url"`
	Role             string    `json:"role"`
	RegistrationDate time.Time `json:"registration_date"`
}

type NewUser struct {
	FullName  string
	Email     string
	Password  string
	Phone     string
	Faculty   string
	UserGroup string
	Role      string
}
