package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/config"
	"kumbam/infras/jwt"
	"kumbam/infras/mail"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/auth/model"
	"kumbam/internal/domains/auth/model/dto"
	"kumbam/internal/domains/auth/repository"
	userModel "kumbam/internal/domains/user/model"
	userRepo "kumbam/internal/domains/user/repository"
	"kumbam/shared"
	"kumbam/shared/cache"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"kumbam/shared/otp"
	"kumbam/shared/password"
	"kumbam/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	CacheOTPAttempts = "auth:otp:attempts"

	defaultOTPTTLMinutes = 5
	maxOTPAttempts       = 5

	msgEmailRegistered   = "email already registered"
	msgInvalidCredential = "invalid email or password"
	msgInvalidOTP        = "invalid or expired otp"
	msgTooManyAttempts   = "too many otp attempts, request a new code later"
	msgInvalidToken      = "invalid or expired refresh token"
)

var errOTPMail = errors.New("failed to deliver otp")

type Auth interface {
	Signup(ctx context.Context, req dto.SignupRequest) error
	Login(ctx context.Context, req dto.LoginRequest) error
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	otpRepo    repository.OTP
	jwtService jwt.JWT
	generator  otp.Generator
	mailer     mail.Mailer
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	userRepo userRepo.User,
	otpRepo repository.OTP,
	jwt jwt.JWT,
	generator otp.Generator,
	mailer mail.Mailer,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtService: jwt,
		generator:  generator,
		mailer:     mailer,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.And(gDto.Eq(userModel.TableName, userModel.FieldEmail, email))
}

func (s *serviceImpl) Signup(ctx context.Context, req dto.SignupRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Signup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := dto.NormalizeEmail(req.Email)

	exists, err := s.userRepo.Exist(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.Conflict(msgEmailRegistered) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepo.Insert(ctx, req.ToUserModel(hashedPassword))
	if postgres.IsUniqueViolation(err, userModel.ConstraintEmail) {
		return failure.Conflict(msgEmailRegistered) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Login checks the password and mails a login code. Tokens are only issued by VerifyOTP.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := dto.NormalizeEmail(req.Email)

	user, err := s.userRepo.Get(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", email).Msg("login attempt with non-existent email")

		return failure.BadRequestFromString(msgInvalidCredential) // nolint:wrapcheck
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")

		return failure.BadRequestFromString(msgInvalidCredential) // nolint:wrapcheck
	}

	return s.issueOTP(ctx, email, model.PurposeLogin)
}

func (s *serviceImpl) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyOTP")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := dto.NormalizeEmail(req.Email)

	if err = s.checkOTP(ctx, email, req.OTP, model.PurposeLogin); err != nil {
		return res, err
	}

	user, err := s.userRepo.Get(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.BadRequestFromString(msgInvalidOTP) // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	login := dto.UpdateLogin{IsVerified: true, LastLogin: timezone.Now()}

	if err = s.userRepo.Update(ctx, shared.TransformFields(login, user.ID), emailFilter(email)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

// ForgotPassword never reveals whether the address is registered.
func (s *serviceImpl) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForgotPassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := dto.NormalizeEmail(req.Email)

	exists, err := s.userRepo.Exist(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return nil
	}

	if !exists {
		log.Info().Str("email", email).Msg("password reset requested for unknown email")

		return nil
	}

	if err := s.issueOTP(ctx, email, model.PurposeReset); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to issue password reset otp")
	}

	return nil
}

func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := dto.NormalizeEmail(req.Email)

	if err = s.checkOTP(ctx, email, req.OTP, model.PurposeReset); err != nil {
		return err
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.userRepo.Update(ctx, shared.TransformFields(dto.UpdatePassword{Password: hashedPassword}, constant.ContextGuest), emailFilter(email)); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized(msgInvalidToken) // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ttl() time.Duration {
	minutes := s.cfg.OTP.TTLMinutes
	if minutes < 1 {
		minutes = defaultOTPTTLMinutes
	}

	return time.Duration(minutes) * time.Minute
}

// issueOTP stores only the bcrypt hash of the code; the plain code leaves the
// process in the mail and nowhere else.
func (s *serviceImpl) issueOTP(ctx context.Context, email string, purpose model.Purpose) error {
	code, err := s.generator.Generate()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate otp")

		return fmt.Errorf("failed to generate otp: %w", err)
	}

	codeHash, err := password.Hash(code)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash otp")

		return fmt.Errorf("failed to hash otp: %w", err)
	}

	now := timezone.Now()
	ttl := s.ttl()

	if err = s.otpRepo.Insert(ctx, model.OTPVerification{
		ID:        uuid.NewString(),
		Email:     email,
		Purpose:   purpose,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}); err != nil {
		log.Error().Err(err).Msg("failed to store otp")

		return fmt.Errorf("failed to store otp: %w", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: otpSubject(purpose),
		Body:    fmt.Sprintf("Your Kumbam verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes())),
	})
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to mail otp")

		return failure.InternalError(errOTPMail) // nolint:wrapcheck
	}

	return nil
}

func otpSubject(purpose model.Purpose) string {
	if purpose == model.PurposeReset {
		return "Kumbam Password Reset Code"
	}

	return "Kumbam Login Code"
}

func (s *serviceImpl) checkOTP(ctx context.Context, email, code string, purpose model.Purpose) error {
	attemptsKey := shared.BuildCacheKey(CacheOTPAttempts, string(purpose), email)

	attempts, err := s.cache.Increment(ctx, attemptsKey, int(s.ttl().Seconds()))
	if err != nil {
		log.Warn().Err(err).Msg("failed to count otp attempts")
	}

	if attempts > maxOTPAttempts {
		return failure.BadRequestFromString(msgTooManyAttempts) // nolint:wrapcheck
	}

	record, err := s.otpRepo.Latest(ctx, email, purpose)
	if err != nil {
		log.Error().Err(err).Msg("failed to get otp")

		return fmt.Errorf("failed to get otp: %w", err)
	}

	now := timezone.Now()

	if record.ID == constant.Empty || record.Expired(now) || password.Verify(code, record.CodeHash) != nil {
		return failure.BadRequestFromString(msgInvalidOTP) // nolint:wrapcheck
	}

	consumed, err := s.otpRepo.Consume(ctx, record.ID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to consume otp")

		return fmt.Errorf("failed to consume otp: %w", err)
	}

	if !consumed {
		return failure.BadRequestFromString(msgInvalidOTP) // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, attemptsKey); err != nil {
			log.Error().Err(err).Msg("failed to reset otp attempts")
		}
	}()

	return nil
}
