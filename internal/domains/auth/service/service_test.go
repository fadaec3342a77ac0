package service_test

import (
	"context"
	"errors"
	"kumbam/config"
	"kumbam/infras/jwt"
	jwtMocks "kumbam/infras/jwt/mocks"
	"kumbam/infras/mail"
	mailMocks "kumbam/infras/mail/mocks"
	otelMocks "kumbam/infras/otel/mocks"
	authMocks "kumbam/internal/domains/auth/mocks"
	"kumbam/internal/domains/auth/model"
	"kumbam/internal/domains/auth/model/dto"
	"kumbam/internal/domains/auth/service"
	userMocks "kumbam/internal/domains/user/mocks"
	userModel "kumbam/internal/domains/user/model"
	cacheMocks "kumbam/shared/cache/mocks"
	"kumbam/shared/constant"
	"kumbam/shared/failure"
	otpMocks "kumbam/shared/otp/mocks"
	"kumbam/shared/password"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	userRepo  *userMocks.MockUser
	otpRepo   *authMocks.MockOTP
	jwt       *jwtMocks.MockJWT
	generator *otpMocks.MockGenerator
	mailer    *mailMocks.MockMailer
	cache     *cacheMocks.MockRedisCache
	svc       service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.OTP.TTLMinutes = 5

	f := &fixture{
		userRepo:  userMocks.NewMockUser(ctrl),
		otpRepo:   authMocks.NewMockOTP(ctrl),
		jwt:       jwtMocks.NewMockJWT(ctrl),
		generator: otpMocks.NewMockGenerator(ctrl),
		mailer:    mailMocks.NewMockMailer(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.userRepo, f.otpRepo, f.jwt, f.generator, f.mailer, f.cache, cfg, otelMocks.NewOtel())

	return f
}

// expectAttemptsReset reports the key of the attempt counter cleared after a good OTP.
func (f *fixture) expectAttemptsReset() <-chan string {
	reset := make(chan string, 1)

	f.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			reset <- key

			return nil
		})

	return reset
}

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

func mustHash(t *testing.T, secret string) string {
	t.Helper()

	hash, err := password.Hash(secret)
	require.NoError(t, err)

	return hash
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()

	fail, ok := failure.As(err)
	require.True(t, ok, "expected failure, got %v", err)
	assert.Equal(t, code, fail.Code)
}

func TestAuthService_Signup(t *testing.T) {
	req := dto.SignupRequest{
		FullName: "Meena",
		Phone:    "9876543210",
		Email:    "Meena@Example.com",
		Password: "secret-password",
	}

	t.Run("creates unverified user", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.userRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, "meena@example.com", user.Email)
				assert.NotEqual(t, req.Password, user.Password)
				assert.NoError(t, password.Verify(req.Password, user.Password))

				return nil
			})

		require.NoError(t, f.svc.Signup(context.Background(), req))
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		assertCode(t, f.svc.Signup(context.Background(), req), http.StatusConflict)
	})

	t.Run("email taken concurrently", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.userRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{
			Code:       constant.PqErrorCodeUniqueViolation,
			Constraint: userModel.ConstraintEmail,
		})

		assertCode(t, f.svc.Signup(context.Background(), req), http.StatusConflict)
	})

	t.Run("storage error", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))

		err := f.svc.Signup(context.Background(), req)

		require.Error(t, err)

		_, ok := failure.As(err)
		assert.False(t, ok)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash := mustHash(t, "secret-password")
	user := userModel.User{ID: "user-1", Email: "meena@example.com", Password: hash}

	t.Run("mails a login code", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.generator.EXPECT().Generate().Return("042917", nil)
		f.otpRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, code model.OTPVerification) error {
				assert.Equal(t, model.PurposeLogin, code.Purpose)
				assert.NotEqual(t, "042917", code.CodeHash)
				assert.NoError(t, password.Verify("042917", code.CodeHash))
				assert.WithinDuration(t, code.CreatedAt.Add(5*time.Minute), code.ExpiresAt, time.Second)

				return nil
			})
		f.mailer.EXPECT().
			Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, message mail.Message) error {
				assert.Equal(t, "meena@example.com", message.To)
				assert.Contains(t, message.Body, "042917")

				return nil
			})

		require.NoError(t, f.svc.Login(context.Background(), dto.LoginRequest{Email: "meena@example.com", Password: "secret-password"}))
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "meena@example.com", Password: "nope-nope"})

		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "secret-password"})

		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("mail failure", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.generator.EXPECT().Generate().Return("042917", nil)
		f.otpRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

		err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "meena@example.com", Password: "secret-password"})

		assertCode(t, err, http.StatusInternalServerError)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	codeHash := mustHash(t, "042917")
	user := userModel.User{ID: "user-1", FullName: "Meena", Phone: "9876543210", Email: "meena@example.com"}
	tokenPair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

	valid := func() model.OTPVerification {
		return model.OTPVerification{
			ID:        "otp-1",
			Email:     "meena@example.com",
			Purpose:   model.PurposeLogin,
			CodeHash:  codeHash,
			ExpiresAt: time.Now().Add(time.Minute),
		}
	}

	t.Run("issues tokens", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Increment(gomock.Any(), "auth:otp:attempts:login:meena@example.com", 300).Return(int64(1), nil)
		reset := f.expectAttemptsReset()
		f.otpRepo.EXPECT().Latest(gomock.Any(), "meena@example.com", model.PurposeLogin).Return(valid(), nil)
		f.otpRepo.EXPECT().Consume(gomock.Any(), "otp-1", gomock.Any()).Return(true, nil)
		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), "user-1", "meena@example.com").Return(tokenPair, nil)
		f.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[userModel.FieldIsVerified])
				assert.Contains(t, fields, userModel.FieldLastLogin)

				return nil
			})

		res, err := f.svc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "meena@example.com", OTP: "042917"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "refresh", res.RefreshToken)
		assert.Equal(t, "9876543210", res.Phone)
		assert.Equal(t, "Meena", res.FullName)
		assert.Equal(t, "auth:otp:attempts:login:meena@example.com", awaitKey(t, reset))
	})

	tests := []struct {
		name   string
		record func() model.OTPVerification
	}{
		{
			name:   "no code issued",
			record: func() model.OTPVerification { return model.OTPVerification{} },
		},
		{
			name: "expired",
			record: func() model.OTPVerification {
				code := valid()
				code.ExpiresAt = time.Now().Add(-time.Second)

				return code
			},
		},
		{
			name: "wrong code",
			record: func() model.OTPVerification {
				code := valid()
				code.CodeHash = mustHash(t, "111111")

				return code
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
			f.otpRepo.EXPECT().Latest(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.record(), nil)

			_, err := f.svc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "meena@example.com", OTP: "042917"})

			assertCode(t, err, http.StatusBadRequest)
		})
	}

	t.Run("code used concurrently", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.otpRepo.EXPECT().Latest(gomock.Any(), gomock.Any(), gomock.Any()).Return(valid(), nil)
		f.otpRepo.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "meena@example.com", OTP: "042917"})

		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("too many attempts", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(6), nil)

		_, err := f.svc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "meena@example.com", OTP: "042917"})

		assertCode(t, err, http.StatusBadRequest)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown email is silent", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		require.NoError(t, f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ghost@example.com"}))
	})

	t.Run("mails a reset code", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.generator.EXPECT().Generate().Return("555123", nil)
		f.otpRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, code model.OTPVerification) error {
				assert.Equal(t, model.PurposeReset, code.Purpose)

				return nil
			})
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "meena@example.com"}))
	})

	t.Run("delivery failure is hidden", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.generator.EXPECT().Generate().Return("555123", nil)
		f.otpRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

		require.NoError(t, f.svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "meena@example.com"}))
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Increment(gomock.Any(), "auth:otp:attempts:reset:meena@example.com", gomock.Any()).Return(int64(1), nil)
	reset := f.expectAttemptsReset()
	f.otpRepo.EXPECT().Latest(gomock.Any(), "meena@example.com", model.PurposeReset).Return(model.OTPVerification{
		ID:        "otp-2",
		Purpose:   model.PurposeReset,
		CodeHash:  mustHash(t, "555123"),
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	f.otpRepo.EXPECT().Consume(gomock.Any(), "otp-2", gomock.Any()).Return(true, nil)
	f.userRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			hash, ok := fields[userModel.FieldPassword].(string)
			require.True(t, ok)
			assert.NoError(t, password.Verify("new-secret-password", hash))

			return nil
		})

	err := f.svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email:    "meena@example.com",
		OTP:      "555123",
		Password: "new-secret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, "auth:otp:attempts:reset:meena@example.com", awaitKey(t, reset))
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates tokens", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh").Return(&jwt.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "a2", res.AccessToken)
		assert.Equal(t, "r2", res.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), gomock.Any()).Return(nil, errors.New("expired"))

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})

		assertCode(t, err, http.StatusUnauthorized)
	})
}
