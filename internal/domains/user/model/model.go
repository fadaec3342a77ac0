package model

import (
	"kumbam/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldFullName   = "full_name"
	FieldPhone      = "phone"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldIsVerified = "is_verified"
	FieldLastLogin  = "last_login"

	ConstraintEmail = "users_email_key"
)

type User struct {
	ID         string     `db:"id"`
	FullName   string     `db:"full_name"`
	Phone      string     `db:"phone"`
	Email      string     `db:"email"`
	Password   string     `db:"password"`
	IsVerified bool       `db:"is_verified"`
	LastLogin  *time.Time `db:"last_login"`
	model.Metadata
}
