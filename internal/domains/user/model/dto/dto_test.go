package dto_test

import (
	"kumbam/internal/domains/user/model"
	"kumbam/internal/domains/user/model/dto"
	gModel "kumbam/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserResponse_FromModel(t *testing.T) {
	login := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	var res dto.UserResponse
	res.FromModel(model.User{
		ID:         "user-1",
		FullName:   "Meena",
		Phone:      "9876543210",
		Email:      "meena@example.com",
		Password:   "hash",
		IsVerified: true,
		LastLogin:  &login,
		Metadata:   gModel.NewMetadata(login, "guest"),
	})

	assert.Equal(t, "user-1", res.ID)
	assert.Equal(t, "Meena", res.FullName)
	assert.True(t, res.IsVerified)
	assert.Equal(t, &login, res.LastLogin)
	assert.Equal(t, "guest", res.CreatedBy)
}

func TestUpdateProfileRequest(t *testing.T) {
	name := "  Meena S "
	phone := "9876543210"

	t.Run("empty", func(t *testing.T) {
		req := dto.UpdateProfileRequest{}

		assert.True(t, req.IsEmpty())
		assert.Equal(t, dto.UpdateProfile{}, req.ToUpdate())
	})

	t.Run("name only", func(t *testing.T) {
		req := dto.UpdateProfileRequest{FullName: &name}

		assert.False(t, req.IsEmpty())
		assert.Equal(t, dto.UpdateProfile{FullName: "Meena S"}, req.ToUpdate())
	})

	t.Run("both", func(t *testing.T) {
		req := dto.UpdateProfileRequest{FullName: &name, Phone: &phone}

		assert.Equal(t, dto.UpdateProfile{FullName: "Meena S", Phone: "9876543210"}, req.ToUpdate())
	})
}
