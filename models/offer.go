package models

import "time"

// Offer represents a trade offer listed by a KYC-verified farmer.
type Offer struct {
	ID         string    `bson:"id" json:"id"`
	FarmerID   string    `bson:"farmerId" json:"farmer_id"`
	Commodity  string    `bson:"commodity" json:"commodity"`
	Variety    string    `bson:"variety,omitempty" json:"variety,omitempty"`
	QuantityKg float64   `bson:"quantityKg" json:"quantity_kg"`
	PricePerKg float64   `bson:"pricePerKg" json:"price_per_kg"`
	District   string    `bson:"district,omitempty" json:"district,omitempty"`
	Status     string    `bson:"status" json:"status"` // open | closed
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updated_at"`
}

// OfferCreateRequest is the payload for listing a new offer.
type OfferCreateRequest struct {
	Commodity  string  `json:"commodity" binding:"required"`
	Variety    string  `json:"variety"`
	QuantityKg float64 `json:"quantity_kg" binding:"required,gt=0"`
	PricePerKg float64 `json:"price_per_kg" binding:"required,gt=0"`
	District   string  `json:"district"`
}
