package offer

import (
	offerRepo "agrimandi/database/repository/offer"
	userRepo "agrimandi/database/repository/user"
	"agrimandi/models"
)

// ErrKYCRequired is returned when a user without a verified KYC profile tries
// to list a trade offer.
type ErrKYCRequired struct {
	Status models.KYCStatus
}

func (e ErrKYCRequired) Error() string {
	return "KYC verification required before creating offers (current status: " + string(e.Status) + ")"
}

type OfferService interface {
	CreateOffer(userID string, req models.OfferCreateRequest) (*models.Offer, error)
	GetOffer(id string) (*models.Offer, error)
	ListOpenOffers(commodity, district string) ([]models.Offer, error)
	ListMyOffers(userID string) ([]models.Offer, error)
	DeleteOffer(userID, offerID string) error
}

// DefaultOfferService is the production implementation.
type DefaultOfferService struct {
	Repo  offerRepo.OfferRepository
	Users userRepo.UserRepository
}
