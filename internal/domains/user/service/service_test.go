package service_test

import (
	"context"
	"errors"
	"kumbam/config"
	"kumbam/infras/otel/mocks"
	userMocks "kumbam/internal/domains/user/mocks"
	"kumbam/internal/domains/user/model"
	"kumbam/internal/domains/user/model/dto"
	"kumbam/internal/domains/user/service"
	cacheMocks "kumbam/shared/cache/mocks"
	"kumbam/shared/constant"
	"kumbam/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
}

func TestUserService_GetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	saved := make(chan string, 1)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
			saved <- key

			return nil
		}).
		AnyTimes()

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantCode  int
		wantName  string
	}{
		{
			name: "cache miss reads repository",
			ctx:  userContext(),
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "user-1", FullName: "Meena", Password: "hash"}, nil)
			},
			wantName: "Meena",
		},
		{
			name: "user deleted",
			ctx:  userContext(),
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "anonymous",
			ctx:       context.Background(),
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.GetProfile(tt.ctx)

			if tt.wantCode != 0 {
				fail, ok := failure.As(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, fail.Code)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.FullName)
			assert.Equal(t, "user:get:user-1", awaitKey(t, saved))
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	deleted := make(chan string, 1)

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			deleted <- key

			return nil
		}).
		AnyTimes()

	t.Run("updates only given fields", func(t *testing.T) {
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "Meena S", fields[model.FieldFullName])
				assert.NotContains(t, fields, model.FieldPhone)
				assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := svc.UpdateProfile(userContext(), dto.UpdateProfileRequest{FullName: stringPtr(" Meena S ")})

		require.NoError(t, err)
		assert.Equal(t, "user:get:user-1", awaitKey(t, deleted))
	})

	t.Run("empty request", func(t *testing.T) {
		err := svc.UpdateProfile(userContext(), dto.UpdateProfileRequest{})

		fail, ok := failure.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, fail.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.UpdateProfile(userContext(), dto.UpdateProfileRequest{Phone: stringPtr("9876543210")})

		fail, ok := failure.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, fail.Code)
	})
}

// awaitKey returns the key of the next background cache call.
func awaitKey(t *testing.T, ch <-chan string) string {
	t.Helper()

	select {
	case key := <-ch:
		return key
	case <-time.After(time.Second):
		t.Fatal("background cache call did not happen")

		return ""
	}
}
