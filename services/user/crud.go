package user

import (
	"fmt"

	"agrimandi/models"

	"go.mongodb.org/mongo-driver/bson"
)

// GetUserByID retrieves a user by ID, without the credential fields.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	usr, err := s.Repo.GetByIDWithProjection(userID, bson.M{"passwordHash": 0, "tokenHash": 0})
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	return usr, nil
}

// GetUserByEmail retrieves a user by email, without the credential fields.
func (s *DefaultUserService) GetUserByEmail(email string) (*models.User, error) {
	usr, err := s.Repo.GetByEmailWithProjection(email, bson.M{"passwordHash": 0, "tokenHash": 0})
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	return usr, nil
}

// DeleteUser removes the account.
func (s *DefaultUserService) DeleteUser(userID string) error {
	return s.Repo.Delete(userID)
}
