package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
	"starconnect-back/pkg/jwt"
	"starconnect-back/pkg/mailer"
	"starconnect-back/pkg/redis"
)

const (
	resetTokenTTL     = 15 * time.Minute
	resetEmailSubject = "Reset your StarConnect password"
)

const resetEmailTemplate = `
	<h2>Hi, {{.Name}}!</h2>
	<p>Someone asked to reset the password of your StarConnect account.</p>
	<p><a href="{{.URL}}">Set a new password</a> (the link is valid for 15 minutes).</p>
	<p>If this was not you, just ignore this email.</p>
`

type UserRepository interface {
	Pool() *pgxpool.Pool

	InsertUser(ctx context.Context, ext repository.RepoExtension, user *model.User) (*model.User, error)
	SelectUserByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.User, error)
	SelectUserByEmail(ctx context.Context, ext repository.RepoExtension, email string) (*model.User, error)
	SelectUserByUsername(ctx context.Context, ext repository.RepoExtension, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, upd *model.ProfileUpdateRequest) (*model.User, error)
	UpdateUserPassword(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, hashedPassword []byte) error

	InsertPasswordResetToken(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, token []byte, expiresAt time.Time) error
	SelectUserByResetToken(ctx context.Context, ext repository.RepoExtension, token []byte) (*model.User, error)
	DeletePasswordResetToken(ctx context.Context, ext repository.RepoExtension, token []byte) error
}

type AuthService struct {
	log             *zap.Logger
	publicKey       *ecdsa.PublicKey
	privateKey      *ecdsa.PrivateKey
	userRepo        UserRepository
	mlr             mailer.Mailer
	rdb             redis.Redis
	frontendBaseURL string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(
	log *zap.Logger,
	publicKey *ecdsa.PublicKey,
	privateKey *ecdsa.PrivateKey,
	userRepo UserRepository,
	mlr mailer.Mailer,
	rdb redis.Redis,
	frontendBaseURL string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:             log,
		publicKey:       publicKey,
		privateKey:      privateKey,
		userRepo:        userRepo,
		mlr:             mlr,
		rdb:             rdb,
		frontendBaseURL: frontendBaseURL,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash: %w", err)
	}

	user := &model.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: passHash,
		Name:           req.Name,
	}

	user, err = s.userRepo.InsertUser(ctx, nil, user)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	user, err := s.userRepo.SelectUserByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserDoesNotExist) {
			return nil, apperrors.ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.rdb.Client().Del(ctx, refreshToken).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// Refresh rotates the token pair: the old refresh token is revoked and a new
// one is issued in the same Redis transaction.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	userID, err := s.rdb.Client().Get(ctx, refreshToken).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperrors.ErrRefreshTokenExpired
		}

		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}

	user, err := s.userRepo.SelectUserByID(ctx, nil, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	newAccessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	newRefreshToken := uuid.New().String()

	pipe := s.rdb.Client().TxPipeline()
	pipe.Del(ctx, refreshToken)
	pipe.Set(ctx, newRefreshToken, user.ID.String(), s.refreshTokenTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to exec transaction: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// RequestPasswordReset always succeeds from the caller's point of view, so an
// attacker cannot probe which addresses are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.SelectUserByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserDoesNotExist) {
			return nil
		}

		return fmt.Errorf("failed to select user: %w", err)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(resetTokenTTL)

	if err := s.userRepo.InsertPasswordResetToken(ctx, nil, user.ID, tokenBytes, expiresAt); err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	tokenStr := base64.URLEncoding.EncodeToString(tokenBytes)
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, tokenStr)

	if err := s.mlr.SendHTML(user.Email, resetEmailSubject, resetEmailTemplate, map[string]any{
		"Name": user.Username,
		"URL":  resetURL,
	}); err != nil {
		s.log.Error("failed to send reset email", zap.Error(err))
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	tokenBytes, err := base64.URLEncoding.DecodeString(tokenStr)
	if err != nil {
		return apperrors.ErrResetTokenInvalid
	}

	user, err := s.userRepo.SelectUserByResetToken(ctx, nil, tokenBytes)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to generate password hash: %w", err)
	}

	tx, err := s.userRepo.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.userRepo.UpdateUserPassword(ctx, tx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.userRepo.DeletePasswordResetToken(ctx, tx, tokenBytes); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// TestLogin creates a throwaway account with fake data, handy for demos and
// load tests against non-production environments.
func (s *AuthService) TestLogin(ctx context.Context) (*model.AuthResponse, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(gofakeit.Password(true, true, true, true, true, 15)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash: %w", err)
	}

	user := &model.User{
		ID:             uuid.New(),
		Username:       gofakeit.Username(),
		Email:          gofakeit.Email(),
		HashedPassword: passHash,
		Name:           gofakeit.Name(),
	}

	user, err = s.userRepo.InsertUser(ctx, nil, user)
	if err != nil {
		return nil, fmt.Errorf("failed to insert test user: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.signAccessToken(user)
	if err != nil {
		return "", "", err
	}

	refreshToken = uuid.New().String()

	if err := s.rdb.Client().Set(ctx, refreshToken, user.ID.String(), s.refreshTokenTTL).Err(); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) signAccessToken(user *model.User) (string, error) {
	accessToken, err := jwt.NewToken(s.privateKey, s.accessTokenTTL,
		jwt.WithClaim(model.UserUIDKey, user.ID),
		jwt.WithClaim(model.UserEmailKey, user.Email),
		jwt.WithClaim(model.UserNameKey, user.Username),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}
