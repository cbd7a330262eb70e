package user

import (
	userRepo "agrimandi/database/repository/user"
	"agrimandi/models"
)

// AuthResponse carries the user and the freshly minted session token.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type UserService interface {
	Register(req models.UserRegistrationRequest) (*AuthResponse, error)
	Authenticate(email, password string) (*AuthResponse, error)

	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	DeleteUser(userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
