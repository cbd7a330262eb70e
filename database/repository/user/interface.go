package userRepo

import (
	"agrimandi/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(user *models.User) error
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	Update(id string, setFields bson.M) error
	Delete(id string) error

	// UpdateKYCFields applies a partial update to the user's KYC fields.
	// Only the KYC persister may call this.
	UpdateKYCFields(id string, setFields bson.M) (*models.User, error)
}
