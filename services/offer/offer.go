package offer

import (
	"fmt"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CreateOffer lists a new trade offer. Only KYC-verified users may list;
// the KYC fields are read here but never written outside the persister.
func (s *DefaultOfferService) CreateOffer(userID string, req models.OfferCreateRequest) (*models.Offer, error) {
	usr, err := s.Users.GetByIDWithProjection(userID, bson.M{"id": 1, "kycStatus": 1, "district": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if usr.KYCStatus != models.KYCVerified {
		return nil, ErrKYCRequired{Status: usr.KYCStatus}
	}

	now := time.Now()
	off := &models.Offer{
		ID:         uuid.NewString(),
		FarmerID:   userID,
		Commodity:  req.Commodity,
		Variety:    req.Variety,
		QuantityKg: req.QuantityKg,
		PricePerKg: req.PricePerKg,
		District:   req.District,
		Status:     "open",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if off.District == "" {
		off.District = usr.District
	}
	if err := s.Repo.Create(off); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("offer created",
		zap.String("offerID", off.ID),
		zap.String("farmerID", userID),
		zap.String("commodity", off.Commodity))
	return off, nil
}

// GetOffer retrieves a single offer.
func (s *DefaultOfferService) GetOffer(id string) (*models.Offer, error) {
	off, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, fmt.Errorf("offer %s not found", id)
	}
	return off, nil
}

// ListOpenOffers lists open offers with optional commodity/district filters.
func (s *DefaultOfferService) ListOpenOffers(commodity, district string) ([]models.Offer, error) {
	return s.Repo.ListOpen(commodity, district, 100)
}

// ListMyOffers lists every offer posted by the given user.
func (s *DefaultOfferService) ListMyOffers(userID string) ([]models.Offer, error) {
	return s.Repo.ListByFarmer(userID)
}

// DeleteOffer removes an offer after an ownership check.
func (s *DefaultOfferService) DeleteOffer(userID, offerID string) error {
	off, err := s.Repo.GetByID(offerID)
	if err != nil {
		return err
	}
	if off == nil {
		return fmt.Errorf("offer %s not found", offerID)
	}
	if off.FarmerID != userID {
		return fmt.Errorf("offer %s does not belong to user %s", offerID, userID)
	}
	return s.Repo.Delete(offerID)
}
