package offerRepo

import "agrimandi/models"

// OfferRepository defines persistence operations for trade offers.
type OfferRepository interface {
	Create(offer *models.Offer) error
	GetByID(id string) (*models.Offer, error)
	ListOpen(commodity, district string, limit int64) ([]models.Offer, error)
	ListByFarmer(farmerID string) ([]models.Offer, error)
	Delete(id string) error
}
