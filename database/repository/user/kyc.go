package userRepo

import (
	"fmt"
	"time"

	"agrimandi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateKYCFields applies a partial update to the user's KYC fields and
// returns the updated document. Callers outside the KYC persister must not
// use this; the persister is the single writer of KYC state.
func (r *MongoUserRepo) UpdateKYCFields(id string, setFields bson.M) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	setFields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": setFields}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to update KYC fields for user %s: %w", id, err)
	}
	return &updated, nil
}
