package offerRepo

import (
	"context"
	"fmt"
	"time"

	"agrimandi/database"
	"agrimandi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOfferRepo implements OfferRepository using MongoDB.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo creates a new instance of OfferRepository using MongoDB.
func NewMongoOfferRepo() OfferRepository {
	coll := database.MongoClient.Database("agrimandi").Collection("offers")
	repo := &MongoOfferRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoOfferRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "farmerId", Value: 1}}},
		{Keys: bson.D{{Key: "commodity", Value: 1}, {Key: "district", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new offer document.
func (r *MongoOfferRepo) Create(offer *models.Offer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, offer); err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID retrieves an offer by its unique ID.
func (r *MongoOfferRepo) GetByID(id string) (*models.Offer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var offer models.Offer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&offer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch offer with id %s: %w", id, err)
	}
	return &offer, nil
}

// ListOpen retrieves open offers, optionally filtered by commodity and district.
func (r *MongoOfferRepo) ListOpen(commodity, district string, limit int64) ([]models.Offer, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"status": "open"}
	if commodity != "" {
		filter["commodity"] = commodity
	}
	if district != "" {
		filter["district"] = district
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

// ListByFarmer retrieves all offers listed by the given farmer.
func (r *MongoOfferRepo) ListByFarmer(farmerID string) ([]models.Offer, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"farmerId": farmerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list offers for farmer %s: %w", farmerID, err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

// Delete removes an offer document by ID.
func (r *MongoOfferRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete offer %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("offer %s not found", id)
	}
	return nil
}
