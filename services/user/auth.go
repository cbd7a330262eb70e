package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// Register creates a new account with KYC in its initial state and signs the
// user in.
func (s *DefaultUserService) Register(req models.UserRegistrationRequest) (*AuthResponse, error) {
	logger := utils.GetLogger()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Repo.GetByEmailWithProjection(email, bson.M{"id": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	usr := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  req.PhoneNumber,
		District:     req.District,
		State:        req.State,
		KYCStatus:    models.KYCNotStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(usr); err != nil {
		return nil, err
	}

	token, err := s.issueToken(usr)
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", zap.String("userID", usr.ID))
	usr.PasswordHash = ""
	return &AuthResponse{User: usr, Token: token}, nil
}

// Authenticate validates credentials and mints a fresh session token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	usr, err := s.Repo.GetByEmailWithProjection(email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := s.issueToken(usr)
	if err != nil {
		return nil, err
	}

	usr.PasswordHash = ""
	return &AuthResponse{User: usr, Token: token}, nil
}

// issueToken mints a JWT, records its hash on the profile, and primes the
// auth cache so the middleware can validate without a DB round trip.
func (s *DefaultUserService) issueToken(usr *models.User) (string, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, tokenLifetime)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.Update(usr.ID, bson.M{"tokenHash": tokenHash}); err != nil {
		return "", err
	}

	authCache := utils.GetAuthCacheClient()
	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := authCache.Set(context.Background(), cacheKey, tokenHash, time.Hour).Err(); err != nil {
		utils.GetLogger().Warn("failed to prime auth cache", zap.String("userID", usr.ID), zap.Error(err))
	}
	return token, nil
}
