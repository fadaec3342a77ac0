package dto

import (
	"kumbam/internal/domains/user/model"
	gDto "kumbam/shared/dto"
	"strings"
	"time"
)

type UserResponse struct {
	ID         string     `json:"id"`
	FullName   string     `json:"full_name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	IsVerified bool       `json:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Email = model.Email
	r.IsVerified = model.IsVerified
	r.LastLogin = model.LastLogin
	r.Metadata = gDto.MetadataFrom(model.Metadata)
}

// UpdateProfileRequest only carries the fields a user may change on their own account.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,phone"`
}

func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.FullName == nil && r.Phone == nil
}

// UpdateProfile is the column view of UpdateProfileRequest for shared.TransformFields.
type UpdateProfile struct {
	FullName string `db:"full_name"`
	Phone    string `db:"phone"`
}

func (r *UpdateProfileRequest) ToUpdate() UpdateProfile {
	var update UpdateProfile

	if r.FullName != nil {
		update.FullName = strings.TrimSpace(*r.FullName)
	}

	if r.Phone != nil {
		update.Phone = strings.TrimSpace(*r.Phone)
	}

	return update
}
